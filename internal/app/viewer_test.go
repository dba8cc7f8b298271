package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/softwrap/internal/config"
	"github.com/dshills/softwrap/internal/engine/document"
	"github.com/dshills/softwrap/internal/renderer/backend"
)

// simViewer is a viewer drawing onto a tcell simulation screen.
type simViewer struct {
	*Viewer
	screen tcell.SimulationScreen
	term   *backend.Terminal
}

func newSimViewer(t *testing.T, text string, width, height int, configure func(*config.Config)) *simViewer {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	term := backend.NewTerminalWithScreen(screen)
	require.NoError(t, term.Init())
	t.Cleanup(term.Shutdown)
	screen.SetSize(width, height)

	cfg := config.Default()
	if configure != nil {
		configure(cfg)
	}
	v, err := New(Options{Backend: term, Config: cfg, Text: text, CheckIndex: true})
	require.NoError(t, err)
	require.NoError(t, v.HandleEvent(backend.Event{Type: backend.EventResize, Width: width, Height: height}))
	v.Render()
	return &simViewer{Viewer: v, screen: screen, term: term}
}

func (s *simViewer) key(t *testing.T, key backend.Key) {
	t.Helper()
	require.NoError(t, s.HandleEvent(backend.Event{Type: backend.EventKey, Key: key}))
	s.Render()
}

func (s *simViewer) typeText(t *testing.T, text string) {
	t.Helper()
	for _, r := range text {
		require.NoError(t, s.HandleEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}))
	}
	s.Render()
}

// row returns the text drawn on screen row y without trailing blanks.
func (s *simViewer) row(y int) string {
	width, _ := s.screen.Size()
	var b strings.Builder
	for x := 0; x < width; x++ {
		mainc, combc, _, _ := s.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		if mainc == 0 {
			mainc = ' '
		}
		b.WriteRune(mainc)
		for _, r := range combc {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func widthConfig(width int) func(*config.Config) {
	return func(c *config.Config) { c.Wrap.Width = width }
}

func TestNewRequiresBackend(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, ErrNoBackend)

	cfg := config.Default()
	cfg.Editor.TabSize = 0
	_, err = New(Options{Backend: &fakeBackend{}, Config: cfg})
	var initErr *InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "config", initErr.Component)
}

func TestResizeWrapsToTerminalWidth(t *testing.T) {
	v := newSimViewer(t, "I must not fear. Fear is the mind-killer.", 10, 6, nil)

	assert.Equal(t, 10, v.Wrapped().Width())
	assert.Equal(t, "I must", v.row(0))
	for y := 0; y < v.textHeight(); y++ {
		info, ok := v.Wrapped().LineInfo(y)
		if !ok {
			assert.Equal(t, "~", v.row(y))
			continue
		}
		section := v.Wrapped().Sections(info.Line)[info.Section]
		assert.Equal(t, strings.TrimRight(section, " "), v.row(y), "row %d", y)
	}

	require.NoError(t, v.HandleEvent(backend.Event{Type: backend.EventResize, Width: 30, Height: 6}))
	assert.Equal(t, 30, v.Wrapped().Width())
	assert.Equal(t, uint64(2), v.metrics.Snapshot().FullWraps)
	assert.Zero(t, v.metrics.Snapshot().RangeWraps)
}

func TestFixedWidthIgnoresTerminalWidth(t *testing.T) {
	v := newSimViewer(t, "hello", 40, 5, widthConfig(10))
	assert.Equal(t, 10, v.Wrapped().Width())

	require.NoError(t, v.HandleEvent(backend.Event{Type: backend.EventResize, Width: 60, Height: 5}))
	assert.Equal(t, 10, v.Wrapped().Width())
}

func TestTypingRewrapsIncrementally(t *testing.T) {
	v := newSimViewer(t, "hello", 40, 5, widthConfig(10))
	v.key(t, backend.KeyEnd)
	v.typeText(t, " world again")

	assert.Equal(t, "hello world again", v.Buffer().Text())
	assert.Equal(t, document.Loc(0, 17), v.Cursor())
	assert.True(t, v.Modified())

	offsets, err := v.Wrapped().Offsets(0)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 12}, offsets)
	assert.Equal(t, 3, v.Wrapped().Height())

	snapshot := v.metrics.Snapshot()
	assert.Equal(t, uint64(12), snapshot.RangeWraps)
	assert.Equal(t, uint64(1), snapshot.FullWraps)
	assert.Equal(t, int64(2), snapshot.RowsShifted)

	assert.Equal(t, "hello", v.row(0))
	assert.Equal(t, "world", v.row(1))
	assert.Equal(t, "again", v.row(2))
}

func TestEnterBackspaceDelete(t *testing.T) {
	v := newSimViewer(t, "ab", 20, 5, nil)

	v.key(t, backend.KeyBackspace) // Nothing before the start
	assert.Equal(t, "ab", v.Buffer().Text())

	v.key(t, backend.KeyRight)
	v.key(t, backend.KeyEnter)
	assert.Equal(t, []string{"a", "b"}, v.Buffer().Lines())
	assert.Equal(t, document.Loc(1, 0), v.Cursor())
	assert.Equal(t, 2, v.Wrapped().Height())

	v.key(t, backend.KeyBackspace)
	assert.Equal(t, "ab", v.Buffer().Text())
	assert.Equal(t, document.Loc(0, 1), v.Cursor())

	v.key(t, backend.KeyDelete)
	assert.Equal(t, "a", v.Buffer().Text())
	v.key(t, backend.KeyDelete) // Nothing after the end
	assert.Equal(t, "a", v.Buffer().Text())

	v.key(t, backend.KeyTab)
	assert.Equal(t, "a\t", v.Buffer().Text())
}

func TestHorizontalMovesCrossLines(t *testing.T) {
	v := newSimViewer(t, "ab\ncd", 20, 5, nil)

	v.key(t, backend.KeyLeft)
	assert.Equal(t, document.Loc(0, 0), v.Cursor())

	for range 3 {
		v.key(t, backend.KeyRight)
	}
	assert.Equal(t, document.Loc(1, 0), v.Cursor())

	v.key(t, backend.KeyLeft)
	assert.Equal(t, document.Loc(0, 2), v.Cursor())
}

func TestVerticalMovesFollowRows(t *testing.T) {
	v := newSimViewer(t, "I must not fear.", 20, 5, widthConfig(10))

	v.key(t, backend.KeyDown)
	assert.Equal(t, document.Loc(0, 7), v.Cursor())

	for range 3 {
		v.key(t, backend.KeyRight)
	}
	v.key(t, backend.KeyUp)
	assert.Equal(t, document.Loc(0, 3), v.Cursor())

	// The cell column is kept across consecutive vertical moves.
	v.key(t, backend.KeyDown)
	assert.Equal(t, document.Loc(0, 10), v.Cursor())

	v.key(t, backend.KeyEnd)
	assert.Equal(t, document.Loc(0, 16), v.Cursor())
	v.key(t, backend.KeyHome)
	assert.Equal(t, document.Loc(0, 7), v.Cursor())

	// End of a row that is not the last of its line stays on that row.
	v.key(t, backend.KeyUp)
	v.key(t, backend.KeyEnd)
	assert.Equal(t, document.Loc(0, 6), v.Cursor())

	v.key(t, backend.KeyUp)
	assert.Equal(t, document.Loc(0, 6), v.Cursor())
}

func TestPageDownScrolls(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "line"
	}
	v := newSimViewer(t, strings.Join(lines, "\n"), 10, 5, nil)

	v.key(t, backend.KeyPageDown)
	assert.Equal(t, document.Loc(4, 0), v.Cursor())
	assert.Equal(t, 1, v.view.TopRow())

	v.key(t, backend.KeyPageUp)
	assert.Equal(t, document.Loc(0, 0), v.Cursor())
	assert.Equal(t, 0, v.view.TopRow())
}

func TestScrollMarginKeepsContext(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "line"
	}
	v := newSimViewer(t, strings.Join(lines, "\n"), 10, 5, func(c *config.Config) { c.Editor.ScrollMargin = 1 })

	v.key(t, backend.KeyDown)
	v.key(t, backend.KeyDown)
	assert.Equal(t, 0, v.view.TopRow())

	v.key(t, backend.KeyDown)
	assert.Equal(t, document.Loc(3, 0), v.Cursor())
	assert.Equal(t, 1, v.view.TopRow())
}

func TestHorizontalScrollWhenUnwrapped(t *testing.T) {
	v := newSimViewer(t, strings.Repeat("a", 30), 10, 3, func(c *config.Config) { c.Wrap.Disabled = true })

	assert.Equal(t, 0, v.Wrapped().Width())
	assert.Equal(t, strings.Repeat("a", 10), v.row(0))

	v.key(t, backend.KeyEnd)
	assert.Equal(t, document.Loc(0, 30), v.Cursor())
	assert.Equal(t, 21, v.view.LeftCell())
	assert.Equal(t, strings.Repeat("a", 9), v.row(0))
}

func TestMouse(t *testing.T) {
	v := newSimViewer(t, "I must not fear.", 20, 5, widthConfig(10))

	require.NoError(t, v.HandleEvent(backend.Event{Type: backend.EventMouse, MouseX: 2, MouseY: 1, MouseButton: backend.MouseLeft}))
	assert.Equal(t, document.Loc(0, 9), v.Cursor())

	// Clicks on the status line are ignored.
	require.NoError(t, v.HandleEvent(backend.Event{Type: backend.EventMouse, MouseX: 0, MouseY: 4, MouseButton: backend.MouseLeft}))
	assert.Equal(t, document.Loc(0, 9), v.Cursor())

	require.NoError(t, v.HandleEvent(backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseWheelDown}))
	assert.Equal(t, 1, v.view.TopRow())
	require.NoError(t, v.HandleEvent(backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseWheelUp}))
	assert.Equal(t, 0, v.view.TopRow())
}

func TestQuit(t *testing.T) {
	v := newSimViewer(t, "", 20, 5, nil)

	assert.ErrorIs(t, v.HandleEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlQ}), ErrQuit)
	assert.ErrorIs(t, v.HandleEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'q', Mod: backend.ModCtrl}), ErrQuit)
	assert.ErrorIs(t, v.HandleEvent(backend.Event{Type: backend.EventInterrupt, Data: quitRequest{}}), ErrQuit)
	assert.Equal(t, "", v.Buffer().Text())
}

func TestToggleWrapAndFold(t *testing.T) {
	v := newSimViewer(t, "ab "+strings.Repeat("y", 25), 40, 5, widthConfig(10))
	assert.Equal(t, 4, v.Wrapped().Height())

	v.key(t, backend.KeyCtrlW)
	assert.Equal(t, 0, v.Wrapped().Width())
	assert.Contains(t, v.row(4), "wrap off")

	v.key(t, backend.KeyCtrlW)
	assert.Equal(t, 10, v.Wrapped().Width())

	v.key(t, backend.KeyCtrlF)
	assert.False(t, v.Wrapped().Fold())
	assert.Equal(t, 2, v.Wrapped().Height())
	assert.Contains(t, v.row(4), "wrap 10 nofold")
}

func TestRenderTabsAndCombiningMarks(t *testing.T) {
	v := newSimViewer(t, "\tx\ne\u0301z", 20, 5, nil)

	assert.Equal(t, "    x", v.row(0))

	mainc, combc, _, _ := v.screen.GetContent(0, 1) //nolint:staticcheck // GetContent is the correct API
	assert.Equal(t, 'e', mainc)
	assert.Equal(t, []rune{'\u0301'}, combc)
	mainc, _, _, _ = v.screen.GetContent(1, 1) //nolint:staticcheck // GetContent is the correct API
	assert.Equal(t, 'z', mainc)

	assert.Equal(t, "~", v.row(2))
	assert.Contains(t, v.row(4), "[scratch]  1:1  rows 2")
}

func TestApplyConfigInterrupt(t *testing.T) {
	v := newSimViewer(t, "one two three four", 40, 5, widthConfig(10))

	cfg := config.Default()
	cfg.Wrap.Width = 5
	cfg.Editor.TabSize = 2
	require.NoError(t, v.HandleEvent(backend.Event{Type: backend.EventInterrupt, Data: configReload{cfg: cfg}}))
	assert.Equal(t, 5, v.Wrapped().Width())
	assert.Equal(t, 2, v.Wrapped().TabSize())
	assert.Equal(t, 2, v.tabs.TabWidth())
	assert.Equal(t, "config reloaded", v.Message())
	require.NoError(t, v.Wrapped().Check())

	require.NoError(t, v.HandleEvent(backend.Event{Type: backend.EventInterrupt, Data: configReload{err: errors.New("bad file")}}))
	assert.Equal(t, 5, v.Wrapped().Width())
	assert.Contains(t, v.Message(), "bad file")
}

func TestLogLevelFollowsConfig(t *testing.T) {
	var out strings.Builder
	logger := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &out})

	cfg := config.Default()
	cfg.Wrap.Width = 10
	v, err := New(Options{Backend: newFakeBackend(20, 5), Config: cfg, Logger: logger, Text: "hello"})
	require.NoError(t, err)
	v.resize(20, 5)

	require.NoError(t, v.HandleEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'x'}))
	logged := out.String()
	assert.Contains(t, logged, "edit rewrapped {component=viewer, line=0, row_delta=0")
	assert.Contains(t, logged, "rewrapped lines 0-0")
	assert.Contains(t, logged, "component=wrap")

	// Raising the level through a reload silences both components.
	quiet := cfg.Clone()
	quiet.Logging.Level = "error"
	v.ApplyConfig(quiet)
	out.Reset()
	require.NoError(t, v.HandleEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'y'}))
	assert.Empty(t, out.String())
}

// nextInterrupt polls the terminal until an interrupt arrives.
func nextInterrupt(t *testing.T, term *backend.Terminal) backend.Event {
	t.Helper()
	for range 10 {
		if ev := term.PollEvent(); ev.Type == backend.EventInterrupt {
			return ev
		}
	}
	t.Fatal("no interrupt posted")
	return backend.Event{}
}

func TestReloadConfigPostsToEventLoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "softwrap.toml")
	require.NoError(t, os.WriteFile(path, []byte("[wrap]\nwidth = 7\n"), 0o644))

	v := newSimViewer(t, "some words to wrap", 40, 5, nil)
	v.loader = config.NewLoader(path)
	v.override = func(c *config.Config) { c.Editor.TabSize = 3 }

	v.reloadConfig()
	require.NoError(t, v.HandleEvent(nextInterrupt(t, v.term)))
	assert.Equal(t, 7, v.Wrapped().Width())
	assert.Equal(t, 3, v.Wrapped().TabSize())

	require.NoError(t, os.WriteFile(path, []byte("[wrap]\nwidth = -1\n"), 0o644))
	v.reloadConfig()
	require.NoError(t, v.HandleEvent(nextInterrupt(t, v.term)))
	assert.Equal(t, 7, v.Wrapped().Width())
	assert.Contains(t, v.Message(), "reload")
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc\n"), 0o644))

	v := newSimViewer(t, "abc\n", 40, 5, nil)
	v.path = path
	v.typeText(t, "x")
	assert.Contains(t, v.row(4), "notes.txt +")

	v.key(t, backend.KeyCtrlS)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "xabc\n", string(data))
	assert.False(t, v.Modified())
	assert.Equal(t, "saved", v.Message())
}

func TestSaveWithoutPath(t *testing.T) {
	v := newSimViewer(t, "abc", 40, 5, nil)

	v.key(t, backend.KeyCtrlS)
	assert.Contains(t, v.Message(), ErrNoPath.Error())
}

// fakeBackend feeds queued events to the viewer and records what it draws.
type fakeBackend struct {
	events        chan backend.Event
	width, height int
	initErr       error
	cells         map[[2]int]rune
	cursor        [2]int
	cursorShown   bool
	shutdown      bool
}

func newFakeBackend(width, height int, events ...backend.Event) *fakeBackend {
	f := &fakeBackend{
		events: make(chan backend.Event, 64),
		width:  width,
		height: height,
		cells:  make(map[[2]int]rune),
	}
	for _, ev := range events {
		f.events <- ev
	}
	return f
}

func (f *fakeBackend) Init() error { return f.initErr }
func (f *fakeBackend) Shutdown() { f.shutdown = true }
func (f *fakeBackend) Size() (int, int) { return f.width, f.height }
func (f *fakeBackend) Clear() { clear(f.cells) }
func (f *fakeBackend) Show() {}
func (f *fakeBackend) HideCursor() { f.cursorShown = false }
func (f *fakeBackend) PostEvent(ev backend.Event) error {
	f.events <- ev
	return nil
}

func (f *fakeBackend) SetContent(x, y int, mainc rune, _ []rune, _ backend.Style) {
	f.cells[[2]int{x, y}] = mainc
}

func (f *fakeBackend) ShowCursor(x, y int) {
	f.cursor = [2]int{x, y}
	f.cursorShown = true
}

func (f *fakeBackend) PollEvent() backend.Event {
	ev, ok := <-f.events
	if !ok {
		return backend.Event{Type: backend.EventClosed}
	}
	return ev
}

func runViewer(t *testing.T, v *Viewer, ctx context.Context) error {
	t.Helper()
	result := make(chan error, 1)
	go func() { result <- v.Run(ctx) }()

	select {
	case err := <-result:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("viewer did not stop")
		return nil
	}
}

func TestRunProcessesEventsUntilQuit(t *testing.T) {
	fake := newFakeBackend(20, 4,
		backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'h'},
		backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'i'},
		backend.Event{Type: backend.EventNone},
		backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlQ},
	)
	v, err := New(Options{Backend: fake, Text: "!", CheckIndex: true})
	require.NoError(t, err)

	require.NoError(t, runViewer(t, v, context.Background()))
	assert.Equal(t, "hi!", v.Buffer().Text())
	assert.Equal(t, 20, v.Wrapped().Width())
	assert.True(t, fake.shutdown)
	assert.True(t, fake.cursorShown)
	assert.Equal(t, [2]int{2, 0}, fake.cursor)
	assert.Equal(t, 'h', fake.cells[[2]int{0, 0}])
}

func TestRunStopsWhenBackendCloses(t *testing.T) {
	fake := newFakeBackend(20, 4)
	close(fake.events)
	v, err := New(Options{Backend: fake})
	require.NoError(t, err)

	assert.NoError(t, runViewer(t, v, context.Background()))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	fake := newFakeBackend(20, 4)
	v, err := New(Options{Backend: fake})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, runViewer(t, v, ctx))
}

func TestRunReportsInitFailure(t *testing.T) {
	fake := newFakeBackend(20, 4)
	fake.initErr = errors.New("no tty")
	v, err := New(Options{Backend: fake})
	require.NoError(t, err)

	err = v.Run(context.Background())
	var initErr *InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "backend", initErr.Component)
	assert.False(t, fake.shutdown)
}
