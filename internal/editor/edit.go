package editor

import (
	"fmt"

	"labelall/internal/scene"
	"labelall/pkg/geometry"
)

// grab starts a vertex drag, or in edit mode a whole-shape drag.
func (e *Editor) grab(p geometry.Point2D) {
	if v := e.VertexAt(p); v != scene.NoVertex {
		e.grabbed, e.last = v, p
		return
	}
	if e.mode != ModeEdit || !e.inside(p) {
		return
	}
	if s := e.ShapeAt(p); s != nil {
		e.moving, e.last = s, p
		e.surface.SetCursor(CursorHand)
	}
}

func (e *Editor) dragTo(p geometry.Point2D) {
	switch {
	case e.grabbed != scene.NoVertex:
		if _, err := e.reg.MoveVertex(e.grabbed, p); err != nil {
			e.grabbed = scene.NoVertex
			return
		}
		if e.hover != nil && e.reg.Owner(e.grabbed) == e.hover {
			e.setFill(e.reg.Boundary(e.hover))
		}
		e.surface.Refresh()

	case e.moving != nil:
		if !e.inside(p) {
			return
		}
		e.surface.SetCursor(CursorHand)
		ok, err := e.reg.TranslateShape(e.moving.ID, p.Sub(e.last))
		if err != nil {
			e.moving = nil
			return
		}
		if !ok {
			return
		}
		e.last = p
		e.hover = e.moving
		e.setFill(e.reg.Boundary(e.moving))
		e.surface.Refresh()
	}
}

// hoverAt updates the fill overlay for the shape under p and applies the
// point/line vertex magnet.
func (e *Editor) hoverAt(p geometry.Point2D) {
	if !e.inside(p) || len(e.reg.Shapes()) == 0 {
		return
	}
	e.surface.SetCursor(CursorArrow)

	if s := e.ShapeAt(p); s != nil {
		e.hover = s
		if e.setFill(e.reg.Boundary(s)) {
			e.surface.Refresh()
		}
		return
	}
	if v := e.VertexAt(p); v != scene.NoVertex {
		if s := e.reg.Owner(v); s != nil && !s.Kind.Closed() {
			if c := e.reg.Center(v); c != p {
				e.surface.WarpPointer(c)
			}
		}
		return
	}
	if e.clearFill() {
		e.surface.Refresh()
	}
}

func (e *Editor) requestDelete(p geometry.Point2D) {
	s := e.deleteTarget(p)
	if s == nil {
		return
	}
	e.deleting = s
	e.suspend = AwaitingDeleteConfirm
	e.surface.RequestDeleteConfirm(s)
}

// ConfirmDelete removes the shape awaiting confirmation.
func (e *Editor) ConfirmDelete() error {
	if e.suspend != AwaitingDeleteConfirm {
		return ErrNotAwaitingDelete
	}
	s := e.deleting
	e.suspend, e.deleting = NotSuspended, nil
	if e.hover == s {
		e.clearFill()
	}
	if e.moving == s {
		e.moving = nil
	}
	if err := e.reg.RemoveShape(s.ID); err != nil {
		return fmt.Errorf("delete %q: %w", s.Label, err)
	}
	Logger().Debug("shape removed", "kind", s.Kind, "label", s.Label)
	e.surface.Refresh()
	return nil
}

// CancelDelete keeps the shape awaiting confirmation.
func (e *Editor) CancelDelete() error {
	if e.suspend != AwaitingDeleteConfirm {
		return ErrNotAwaitingDelete
	}
	e.suspend, e.deleting = NotSuspended, nil
	return nil
}

// ClearHover drops the hover outline, e.g. after a shape was changed from
// outside the canvas.
func (e *Editor) ClearHover() {
	if e.clearFill() {
		e.surface.Refresh()
	}
}
