package app

import (
	"math"
	"unicode"

	"github.com/dshills/softwrap/internal/config"
	"github.com/dshills/softwrap/internal/engine/document"
	"github.com/dshills/softwrap/internal/renderer/backend"
	"github.com/dshills/softwrap/internal/renderer/statusline"
	"github.com/dshills/softwrap/internal/renderer/wrap"
)

// Interrupt payloads posted to the event loop from other goroutines.
type (
	quitRequest  struct{}
	configReload struct {
		cfg *config.Config
		err error
	}
)

// wheelRows is how far one mouse wheel step scrolls.
const wheelRows = 3

// HandleEvent applies a single backend event to the viewer.
// Returns ErrQuit if the viewer should exit.
func (v *Viewer) HandleEvent(ev backend.Event) error {
	v.metrics.RecordEvent()

	switch ev.Type {
	case backend.EventResize:
		v.resize(ev.Width, ev.Height)
		return nil
	case backend.EventKey:
		return v.handleKey(ev)
	case backend.EventMouse:
		v.handleMouse(ev)
		return nil
	case backend.EventInterrupt:
		return v.handleInterrupt(ev)
	default:
		return nil
	}
}

// normalizeKey folds control letters reported as modified runes into the
// matching control keys.
func normalizeKey(ev backend.Event) backend.Key {
	if ev.Key != backend.KeyRune || !ev.Mod.Has(backend.ModCtrl) {
		return ev.Key
	}
	switch unicode.ToLower(ev.Rune) {
	case 'c':
		return backend.KeyCtrlC
	case 'f':
		return backend.KeyCtrlF
	case 'q':
		return backend.KeyCtrlQ
	case 's':
		return backend.KeyCtrlS
	case 'w':
		return backend.KeyCtrlW
	}
	return backend.KeyNone
}

func (v *Viewer) handleKey(ev backend.Event) error {
	v.status.ClearMessage()

	switch normalizeKey(ev) {
	case backend.KeyCtrlQ, backend.KeyCtrlC:
		return ErrQuit

	case backend.KeyCtrlS:
		if err := v.save(); err != nil {
			v.logger.Warn("%v", err)
			v.status.SetMessage(err.Error(), statusline.MessageError)
		} else {
			v.status.SetMessage("saved", statusline.MessageInfo)
		}
		return nil

	case backend.KeyCtrlW:
		v.cfg.Wrap.Disabled = !v.cfg.Wrap.Disabled
		v.rewrap()

	case backend.KeyCtrlF:
		v.cfg.Wrap.Fold = !v.cfg.Wrap.Fold
		timer := StartTimer()
		v.wrapped.SetFold(v.cfg.Wrap.Fold)
		v.metrics.RecordWrap(timer.Elapsed())

	case backend.KeyRune:
		if ev.Mod.Has(backend.ModAlt) {
			return nil
		}
		if err := v.replace(v.cursor, v.cursor, string(ev.Rune)); err != nil {
			return err
		}

	case backend.KeyTab:
		if err := v.replace(v.cursor, v.cursor, "\t"); err != nil {
			return err
		}

	case backend.KeyEnter:
		if err := v.replace(v.cursor, v.cursor, "\n"); err != nil {
			return err
		}

	case backend.KeyBackspace:
		if prev, ok := v.prevLocation(); ok {
			if err := v.replace(prev, v.cursor, ""); err != nil {
				return err
			}
		}

	case backend.KeyDelete:
		if next, ok := v.nextLocation(); ok {
			if err := v.replace(v.cursor, next, ""); err != nil {
				return err
			}
		}

	case backend.KeyLeft:
		if prev, ok := v.prevLocation(); ok {
			v.moveTo(prev)
		}

	case backend.KeyRight:
		if next, ok := v.nextLocation(); ok {
			v.moveTo(next)
		}

	case backend.KeyUp:
		v.moveRows(-1)

	case backend.KeyDown:
		v.moveRows(1)

	case backend.KeyPageUp:
		v.moveRows(-max(v.textHeight(), 1))

	case backend.KeyPageDown:
		v.moveRows(max(v.textHeight(), 1))

	case backend.KeyHome:
		v.moveWithinRow(0)

	case backend.KeyEnd:
		v.moveWithinRow(math.MaxInt)

	default:
		return nil
	}

	v.scrollToCursor()
	return nil
}

func (v *Viewer) handleMouse(ev backend.Event) {
	switch ev.MouseButton {
	case backend.MouseLeft:
		if ev.MouseY < 0 || ev.MouseY >= v.textHeight() {
			return
		}
		offset := wrap.Offset{X: v.view.ScreenToCell(ev.MouseX), Y: v.view.ScreenToRow(ev.MouseY)}
		v.moveTo(v.wrapped.OffsetToLocation(offset, v.tabs.TabWidth()))
		v.scrollToCursor()
	case backend.MouseWheelUp:
		v.scroll(-wheelRows)
	case backend.MouseWheelDown:
		v.scroll(wheelRows)
	}
}

func (v *Viewer) handleInterrupt(ev backend.Event) error {
	switch data := ev.Data.(type) {
	case quitRequest:
		return ErrQuit
	case configReload:
		if data.err != nil {
			v.logger.Warn("config reload failed: %v", data.err)
			v.status.SetMessage("config: "+data.err.Error(), statusline.MessageError)
			return nil
		}
		v.ApplyConfig(data.cfg)
		v.status.SetMessage("config reloaded", statusline.MessageInfo)
	}
	return nil
}

// prevLocation returns the location one character before the cursor,
// crossing to the end of the previous line.
func (v *Viewer) prevLocation() (document.Location, bool) {
	switch {
	case v.cursor.Column > 0:
		return document.Loc(v.cursor.Line, v.cursor.Column-1), true
	case v.cursor.Line > 0:
		return document.Loc(v.cursor.Line-1, v.buf.LineLen(v.cursor.Line-1)), true
	default:
		return document.Location{}, false
	}
}

// nextLocation returns the location one character after the cursor,
// crossing to the start of the next line.
func (v *Viewer) nextLocation() (document.Location, bool) {
	switch {
	case v.cursor.Column < v.buf.LineLen(v.cursor.Line):
		return document.Loc(v.cursor.Line, v.cursor.Column+1), true
	case v.cursor.Line < v.buf.LineCount()-1:
		return document.Loc(v.cursor.Line+1, 0), true
	default:
		return document.Location{}, false
	}
}

func (v *Viewer) moveTo(loc document.Location) {
	v.cursor = loc
	v.goalX = -1
}

// moveRows moves the cursor by delta visual rows, keeping the cell column
// it started from across consecutive vertical moves.
func (v *Viewer) moveRows(delta int) {
	tabWidth := v.tabs.TabWidth()
	offset := v.wrapped.LocationToOffset(v.cursor, tabWidth)
	if v.goalX < 0 {
		v.goalX = offset.X
	}
	y := min(max(offset.Y+delta, 0), v.wrapped.Height()-1)
	v.cursor = v.wrapped.OffsetToLocation(wrap.Offset{X: v.goalX, Y: y}, tabWidth)
}

// moveWithinRow moves the cursor to cell x of the row it is on.
func (v *Viewer) moveWithinRow(x int) {
	tabWidth := v.tabs.TabWidth()
	offset := v.wrapped.LocationToOffset(v.cursor, tabWidth)
	info, ok := v.wrapped.LineInfo(offset.Y)
	if !ok {
		return
	}
	v.moveTo(document.Loc(info.Line, v.wrapped.TargetDocumentColumn(info.Line, x, info.Section, tabWidth)))
}

func (v *Viewer) scroll(delta int) {
	v.view.SetRowCount(v.wrapped.Height())
	v.view.ScrollBy(delta)
}

// scrollToCursor adjusts the viewport so the cursor is on screen.
// Horizontal scrolling is only needed when rows can be wider than the
// screen.
func (v *Viewer) scrollToCursor() {
	w := v.wrapped.Width()
	v.view.SetHorizontalScroll(w == 0 || w > v.width)
	v.view.SetRowCount(v.wrapped.Height())

	offset := v.wrapped.LocationToOffset(v.cursor, v.tabs.TabWidth())
	v.view.ScrollToReveal(offset.Y, offset.X)
}
