package editor

import (
	"labelall/pkg/geometry"
)

// Press handles a left button press at p.
func (e *Editor) Press(p geometry.Point2D) error {
	if e.suspend != NotSuspended {
		return ErrSuspended
	}
	e.reg.SetCursor(p)
	if e.mode.Drawing() {
		return e.construct(p)
	}
	e.grab(p)
	return nil
}

// Move handles pointer motion; pressed is true while the left button is held.
func (e *Editor) Move(p geometry.Point2D, pressed bool) {
	if e.suspend != NotSuspended {
		return
	}
	e.reg.SetCursor(p)

	switch {
	case e.mode.Drawing():
		e.surface.SetCursor(CursorCross)
		if e.mode == ModeDrawPolygon {
			e.magnetClose(p)
		}
		if e.Busy() {
			e.surface.Refresh()
		}
	case pressed:
		e.dragTo(p)
	case e.mode == ModeEdit:
		e.hoverAt(p)
	}
}

// Release ends any drag in progress.
func (e *Editor) Release(geometry.Point2D) {
	if e.grabbed == 0 && e.moving == nil {
		return
	}
	e.grabbed, e.moving = 0, nil
	e.surface.SetCursor(CursorArrow)
}

// Key handles a keyboard command at the current pointer position.
func (e *Editor) Key(k Key) error {
	if e.suspend != NotSuspended {
		return ErrSuspended
	}
	switch k {
	case KeyBackspace:
		if e.mode.Drawing() {
			e.backtrack()
		}
	case KeyEscape:
		if e.Busy() {
			e.resetConstruction()
			e.reg.DiscardPending()
			e.busy(false)
			e.surface.Refresh()
		}
	case KeyDelete:
		if e.Busy() {
			return nil
		}
		e.requestDelete(e.reg.Cursor())
	}
	return nil
}
