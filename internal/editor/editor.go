// Package editor implements the canvas interaction state machine: drawing
// points, lines, rectangles and polygons, dragging vertices and shapes,
// and the label and delete dialogs that suspend input.
package editor

import (
	"errors"
	"fmt"

	"labelall/internal/scene"
	"labelall/pkg/geometry"
)

var (
	ErrNotAwaitingLabel  = errors.New("no label requested")
	ErrNotAwaitingDelete = errors.New("no delete confirmation requested")
	ErrSuspended         = errors.New("editor is waiting for a dialog")
)

// Mode is the active tool.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawPoint
	ModeDrawLine
	ModeDrawRectangle
	ModeDrawPolygon
	ModeEdit
)

var modeNames = [...]string{"idle", "point", "line", "rectangle", "polygon", "edit"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Drawing reports whether m is one of the four construction tools.
func (m Mode) Drawing() bool {
	return m >= ModeDrawPoint && m <= ModeDrawPolygon
}

// Kind returns the shape kind a drawing mode builds.
func (m Mode) Kind() scene.Kind {
	switch m {
	case ModeDrawPoint:
		return scene.KindPoint
	case ModeDrawLine:
		return scene.KindLine
	case ModeDrawRectangle:
		return scene.KindRectangle
	}
	return scene.KindPolygon
}

// Suspension is a dialog the editor is blocked on.
type Suspension int

const (
	NotSuspended Suspension = iota
	AwaitingLabel
	AwaitingDeleteConfirm
)

// Key is a keyboard command understood by the editor.
type Key int

const (
	KeyBackspace Key = iota
	KeyDelete
	KeyEscape
)

// Editor routes pointer and key input to the scene registry.
type Editor struct {
	reg     *scene.Registry
	surface Surface

	mode    Mode
	suspend Suspension

	// construction
	dragEdge scene.EdgeID   // line/polygon edge following the cursor
	closing  scene.EdgeID   // edge that closed the polygon awaiting a label
	preview  []scene.EdgeID // rectangle sides following the cursor

	// editing
	grabbed scene.VertexID
	moving  *scene.Shape
	last    geometry.Point2D
	hover   *scene.Shape
	fill    []geometry.Point2D

	deleting *scene.Shape
}

// New returns an idle editor over reg.
func New(reg *scene.Registry, surface Surface) *Editor {
	return &Editor{reg: reg, surface: surface}
}

// Registry returns the registry being edited.
func (e *Editor) Registry() *scene.Registry { return e.reg }

// Mode returns the active tool.
func (e *Editor) Mode() Mode { return e.mode }

// Suspended returns the dialog the editor is waiting on, if any.
func (e *Editor) Suspended() Suspension { return e.suspend }

// Busy reports whether a shape is under construction.
func (e *Editor) Busy() bool {
	return len(e.reg.Pending()) > 0
}

// Fill returns the outline of the hovered shape in edit mode, or nil.
func (e *Editor) Fill() []geometry.Point2D {
	if e.fill == nil {
		return nil
	}
	return append([]geometry.Point2D(nil), e.fill...)
}

// SetMode switches tools. Any shape under construction is discarded.
func (e *Editor) SetMode(m Mode) error {
	if e.suspend != NotSuspended {
		return ErrSuspended
	}
	e.resetConstruction()
	e.reg.DiscardPending()
	e.grabbed, e.moving = scene.NoVertex, nil
	e.clearFill()
	e.mode = m
	Logger().Debug("mode changed", "mode", m)

	if m.Drawing() {
		e.surface.SetCursor(CursorCross)
	} else {
		e.surface.SetCursor(CursorArrow)
	}
	e.surface.SetAffordances(m, false)
	e.surface.Refresh()
	return nil
}

// Reset returns to idle after the registry was reloaded.
func (e *Editor) Reset() {
	e.suspend = NotSuspended
	e.deleting = nil
	e.hover = nil
	_ = e.SetMode(ModeIdle)
}

func (e *Editor) resetConstruction() {
	e.dragEdge, e.closing, e.preview = 0, 0, nil
}

func (e *Editor) clearFill() bool {
	e.hover = nil
	if e.fill == nil {
		return false
	}
	e.fill = nil
	return true
}

// setFill replaces the hover outline and reports whether it changed.
func (e *Editor) setFill(pts []geometry.Point2D) bool {
	if samePoints(e.fill, pts) {
		return false
	}
	e.fill = pts
	return true
}

func samePoints(a, b []geometry.Point2D) bool {
	if len(a) != len(b) || (a == nil) != (b == nil) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (e *Editor) busy(b bool) {
	e.surface.SetAffordances(e.mode, b)
}
