package editor

import (
	"fmt"

	"labelall/internal/scene"
	"labelall/pkg/geometry"
)

func (e *Editor) construct(p geometry.Point2D) error {
	if !e.inside(p) {
		return nil
	}
	var err error
	switch e.mode {
	case ModeDrawPoint:
		err = e.pressPoint(p)
	case ModeDrawLine:
		err = e.pressLine(p)
	case ModeDrawRectangle:
		err = e.pressRectangle(p)
	case ModeDrawPolygon:
		err = e.pressPolygon(p)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", e.mode, err)
	}
	return nil
}

func (e *Editor) pressPoint(p geometry.Point2D) error {
	if e.VertexAt(p) != scene.NoVertex {
		return nil
	}
	e.reg.AddVertex(scene.KindPoint, p)
	e.surface.SetCursor(CursorArrow)
	e.awaitLabel()
	return nil
}

func (e *Editor) pressLine(p geometry.Point2D) error {
	if e.VertexAt(p) != scene.NoVertex {
		return nil
	}
	first := len(e.reg.Pending()) == 0
	v := e.reg.AddVertex(scene.KindLine, p)
	if first {
		return e.startDrag(v)
	}
	if err := e.reg.ConnectEdge(e.dragEdge, v); err != nil {
		return err
	}
	e.dragEdge = 0
	e.awaitLabel()
	return nil
}

func (e *Editor) pressRectangle(p geometry.Point2D) error {
	first := len(e.reg.Pending()) == 0
	v := e.reg.AddVertex(scene.KindRectangle, p)
	if first {
		return e.startPreview(v)
	}
	for _, id := range e.preview {
		if err := e.reg.ConnectEdge(id, v); err != nil {
			return err
		}
	}
	e.preview = nil
	e.awaitLabel()
	return nil
}

func (e *Editor) pressPolygon(p geometry.Point2D) error {
	pending := e.reg.Pending()
	if hit := e.VertexAt(p); hit != scene.NoVertex {
		if len(pending) < 3 || hit != pending[0] {
			return nil
		}
		if err := e.reg.ConnectEdge(e.dragEdge, hit); err != nil {
			return err
		}
		e.closing, e.dragEdge = e.dragEdge, 0
		e.awaitLabel()
		return nil
	}

	v := e.reg.AddVertex(scene.KindPolygon, p)
	if e.dragEdge != 0 {
		if err := e.reg.ConnectEdge(e.dragEdge, v); err != nil {
			return err
		}
	}
	return e.startDrag(v)
}

func (e *Editor) startDrag(from scene.VertexID) error {
	id, err := e.reg.AddEdge(from, scene.NoVertex)
	if err != nil {
		return err
	}
	e.dragEdge = id
	e.busy(true)
	e.surface.Refresh()
	return nil
}

func (e *Editor) startPreview(corner scene.VertexID) error {
	ids, err := e.reg.AddRectEdges(corner, scene.NoVertex)
	if err != nil {
		return err
	}
	e.preview = ids
	e.busy(true)
	e.surface.Refresh()
	return nil
}

// magnetClose snaps the pointer onto the first polygon vertex once the
// polygon can be closed.
func (e *Editor) magnetClose(p geometry.Point2D) {
	pending := e.reg.Pending()
	if e.dragEdge == 0 || len(pending) < 3 || !e.inside(p) {
		return
	}
	if e.VertexAt(p) != pending[0] {
		return
	}
	if c := e.reg.Center(pending[0]); c != p {
		e.surface.WarpPointer(c)
	}
}

// awaitLabel suspends input until SubmitLabel or CancelLabel.
// RequestLabel is called last since a surface may answer synchronously.
func (e *Editor) awaitLabel() {
	e.suspend = AwaitingLabel
	e.busy(true)
	e.surface.Refresh()
	e.surface.RequestLabel(e.mode.Kind())
}

// SubmitLabel commits the shape waiting for a label.
func (e *Editor) SubmitLabel(label string, groupID *int) (*scene.Shape, error) {
	if e.suspend != AwaitingLabel {
		return nil, ErrNotAwaitingLabel
	}
	s, err := e.reg.FinalizeShape(label, groupID)
	if err != nil {
		return nil, fmt.Errorf("submit label: %w", err)
	}
	e.suspend = NotSuspended
	e.resetConstruction()
	e.busy(false)
	if e.mode.Drawing() {
		e.surface.SetCursor(CursorCross)
	}
	e.surface.Refresh()
	Logger().Debug("shape finalized", "kind", s.Kind, "label", s.Label, "vertices", len(s.Vertices))
	return s, nil
}

// CancelLabel dismisses the label dialog and steps construction back by one
// vertex so the user can place it again.
func (e *Editor) CancelLabel() error {
	if e.suspend != AwaitingLabel {
		return ErrNotAwaitingLabel
	}
	e.suspend = NotSuspended
	pending := e.reg.Pending()
	if len(pending) == 0 {
		e.busy(false)
		return nil
	}
	last := pending[len(pending)-1]

	var err error
	switch e.mode {
	case ModeDrawPoint:
		err = e.reg.RemoveVertex(last)
		e.busy(false)
	case ModeDrawLine:
		if err = e.reg.RemoveVertex(last); err == nil {
			err = e.startDrag(pending[0])
		}
	case ModeDrawRectangle:
		if err = e.reg.RemoveVertex(last); err == nil {
			err = e.startPreview(pending[0])
		}
	case ModeDrawPolygon:
		if e.closing != 0 {
			err = e.reg.RemoveEdge(e.closing)
			e.closing = 0
		}
		if err == nil {
			err = e.reg.RemoveVertex(last)
		}
		if err == nil {
			err = e.startDrag(pending[len(pending)-2])
		}
	}
	if err != nil {
		return fmt.Errorf("cancel label: %w", err)
	}
	e.surface.SetCursor(CursorCross)
	e.surface.Refresh()
	Logger().Debug("label canceled", "mode", e.mode)
	return nil
}

// backtrack removes the most recently placed vertex of the shape under
// construction. Once nothing is left the tool stays selected but editing
// affordances come back.
func (e *Editor) backtrack() {
	pending := e.reg.Pending()
	if len(pending) == 0 {
		return
	}
	last := pending[len(pending)-1]
	if err := e.reg.RemoveVertex(last); err != nil {
		Logger().Warn("backtrack failed", "err", err)
		return
	}
	e.dragEdge, e.preview = 0, nil

	if e.mode == ModeDrawPolygon && len(pending) > 1 {
		if err := e.startDrag(pending[len(pending)-2]); err != nil {
			Logger().Warn("backtrack failed", "err", err)
		}
		return
	}
	e.busy(false)
	e.surface.Refresh()
}
