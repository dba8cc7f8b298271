// Package app runs the softwrap viewer: a terminal view of a document that
// is soft-wrapped to the terminal width and re-wrapped incrementally as the
// document is edited.
package app

import (
	"context"
	"errors"
	"os"
	"runtime/debug"
	"sync/atomic"

	"github.com/dshills/softwrap/internal/config"
	"github.com/dshills/softwrap/internal/engine/document"
	"github.com/dshills/softwrap/internal/renderer/backend"
	"github.com/dshills/softwrap/internal/renderer/layout"
	"github.com/dshills/softwrap/internal/renderer/statusline"
	"github.com/dshills/softwrap/internal/renderer/viewport"
	"github.com/dshills/softwrap/internal/renderer/wrap"
)

// Options configures a Viewer.
type Options struct {
	// Backend draws the view and supplies input. Required.
	Backend backend.Backend

	// Config holds the initial settings. Defaults are used when nil.
	Config *config.Config

	// Logger receives diagnostics. NullLogger is used when nil.
	Logger *Logger

	// Metrics collects wrap and render statistics. Optional.
	Metrics *Metrics

	// Text is the initial document content.
	Text string

	// Path is the file the document was read from. It is shown in the
	// status line and written by save. Empty for a scratch document.
	Path string

	// Loader reloads the configuration when its file changes.
	// Nil disables hot reload.
	Loader *config.Loader

	// Override is applied to every reloaded configuration so that
	// command-line flags keep precedence over the file.
	Override func(*config.Config)

	// CheckIndex verifies the wrap index after every edit and stops the
	// viewer if it is inconsistent.
	CheckIndex bool
}

// Viewer shows a wrapped document on a backend and applies edits to it.
// All state is owned by the goroutine running the event loop.
type Viewer struct {
	backend    backend.Backend
	cfg        *config.Config
	logger     *Logger
	metrics    *Metrics
	loader     *config.Loader
	override   func(*config.Config)
	checkIndex bool

	path     string
	buf      *document.Buffer
	wrapped  *wrap.WrappedDocument
	tabs     *layout.TabExpander
	modified bool
	status   *statusline.StatusLine

	cursor document.Location
	goalX  int // Preferred cell column for vertical moves, -1 when unset
	view   *viewport.Viewport

	width, height int

	running atomic.Bool
}

// New creates a viewer over opts.Text. The document is not wrapped to a
// width until the viewer learns the screen size.
func New(opts Options) (*Viewer, error) {
	if opts.Backend == nil {
		return nil, ErrNoBackend
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	cfg = cfg.Clone()

	logger := opts.Logger
	if logger == nil {
		logger = NullLogger
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	buf := document.NewBuffer(opts.Text)
	v := &Viewer{
		backend:    opts.Backend,
		cfg:        cfg,
		logger:     logger.WithComponent("viewer"),
		metrics:    metrics,
		loader:     opts.Loader,
		override:   opts.Override,
		checkIndex: opts.CheckIndex,
		path:       opts.Path,
		buf:        buf,
		tabs:       layout.NewTabExpander(cfg.Editor.TabSize),
		status:     statusline.New(),
		goalX:      -1,
		view:       viewport.New(1, 1),
	}
	v.view.SetMargins(cfg.Editor.ScrollMargin, cfg.Editor.ScrollMargin, 0, 0)
	v.wrapped = wrap.New(buf, 0,
		wrap.WithTabSize(cfg.Editor.TabSize),
		wrap.WithFold(cfg.Wrap.Fold),
		wrap.WithLogger(logger.WithComponent("wrap")),
	)
	return v, nil
}

// Run initializes the backend and processes events until the user quits,
// ctx is cancelled or the backend closes.
func (v *Viewer) Run(ctx context.Context) (err error) {
	if !v.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer v.running.Store(false)

	if err := v.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer v.backend.Shutdown()

	defer func() {
		if r := recover(); r != nil {
			err = NewRecoveredPanicError(r, string(debug.Stack()))
		}
	}()

	stop := context.AfterFunc(ctx, func() {
		_ = v.backend.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: quitRequest{}})
	})
	defer stop()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	v.watchConfig(watchCtx)

	v.resize(v.backend.Size())
	v.Render()

	for {
		ev := v.backend.PollEvent()
		switch ev.Type {
		case backend.EventClosed:
			v.logSession()
			return nil
		case backend.EventNone:
			continue
		}

		if err := v.HandleEvent(ev); err != nil {
			v.logSession()
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
		v.Render()
	}
}

func (v *Viewer) logSession() {
	v.logger.Debug("session: %s", v.metrics.Snapshot())
}

// Buffer returns the document being viewed.
func (v *Viewer) Buffer() *document.Buffer {
	return v.buf
}

// Wrapped returns the wrap index of the document.
func (v *Viewer) Wrapped() *wrap.WrappedDocument {
	return v.wrapped
}

// Cursor returns the cursor location.
func (v *Viewer) Cursor() document.Location {
	return v.cursor
}

// Config returns the active configuration.
func (v *Viewer) Config() *config.Config {
	return v.cfg
}

// Modified reports whether the document has unsaved edits.
func (v *Viewer) Modified() bool {
	return v.modified
}

// Message returns the text currently shown in the status line.
func (v *Viewer) Message() string {
	msg, _ := v.status.Message()
	return msg
}

// wrapWidth returns the width the document should be wrapped at for the
// current configuration and screen.
func (v *Viewer) wrapWidth() int {
	switch {
	case v.cfg.Wrap.Disabled:
		return 0
	case v.cfg.Wrap.Width > 0:
		return v.cfg.Wrap.Width
	default:
		return v.width
	}
}

// textHeight is the number of rows available to the document.
func (v *Viewer) textHeight() int {
	if v.height > 1 {
		return v.height - 1
	}
	return max(v.height, 0)
}

func (v *Viewer) resize(width, height int) {
	v.width, v.height = width, height
	v.view.Resize(width, v.textHeight())
	if v.wrapped.Width() != v.wrapWidth() {
		v.rewrap()
	}
	v.scrollToCursor()
}

// rewrap rebuilds the whole wrap index at the configured width.
func (v *Viewer) rewrap() {
	timer := StartTimer()
	v.wrapped.Wrap(v.wrapWidth())
	v.metrics.RecordWrap(timer.Elapsed())
	v.goalX = -1
}

// replace edits the document and re-wraps only the affected lines.
func (v *Viewer) replace(start, end document.Location, text string) error {
	edit, err := v.buf.Replace(start, end, text)
	if err != nil {
		return err
	}

	before := v.wrapped.Height()
	timer := StartTimer()
	v.wrapped.WrapRange(edit.Start, edit.OldEnd, edit.NewEnd)
	took := timer.Elapsed()
	delta := v.wrapped.Height() - before
	v.metrics.RecordWrapRange(took, delta)
	if v.logger.Enabled(LogLevelDebug) {
		v.logger.WithFields(map[string]any{
			"line":      edit.Start.Line,
			"row_delta": delta,
			"took":      took,
		}).Debug("edit rewrapped")
	}

	v.cursor = edit.NewEnd
	v.goalX = -1
	v.modified = true

	if v.checkIndex {
		if err := v.wrapped.Check(); err != nil {
			v.logger.Error("index check failed after %s: %v", edit, err)
			return err
		}
	}
	return nil
}

// ApplyConfig switches to cfg and re-wraps the document where the change
// affects line breaking.
func (v *Viewer) ApplyConfig(cfg *config.Config) {
	v.cfg = cfg.Clone()
	v.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))
	v.tabs.SetTabWidth(cfg.Editor.TabSize)
	v.view.SetMargins(cfg.Editor.ScrollMargin, cfg.Editor.ScrollMargin, 0, 0)

	timer := StartTimer()
	rewrapped := false
	if cfg.Editor.TabSize != v.wrapped.TabSize() {
		v.wrapped.SetTabSize(cfg.Editor.TabSize)
		rewrapped = true
	}
	if cfg.Wrap.Fold != v.wrapped.Fold() {
		v.wrapped.SetFold(cfg.Wrap.Fold)
		rewrapped = true
	}
	if rewrapped {
		v.metrics.RecordWrap(timer.Elapsed())
	}
	if v.wrapped.Width() != v.wrapWidth() {
		v.rewrap()
	}

	v.logger.Info("configuration applied: width %d, tab size %d, fold %t",
		v.wrapped.Width(), v.wrapped.TabSize(), v.wrapped.Fold())
	v.goalX = -1
	v.scrollToCursor()
}

// save writes the document back to its file.
func (v *Viewer) save() error {
	if v.path == "" {
		return NewOperationError("save", "", ErrNoPath)
	}
	if err := os.WriteFile(v.path, []byte(v.buf.Text()), 0o644); err != nil {
		return NewOperationError("save", v.path, err)
	}
	v.modified = false
	v.logger.Info("saved %s (%d lines)", v.path, v.buf.LineCount())
	return nil
}
