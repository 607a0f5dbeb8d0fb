package editor

import (
	"labelall/internal/scene"
	"labelall/pkg/geometry"
)

// Cursor is the pointer shape requested from the surface.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorCross
	CursorHand
)

// Surface is what the editor drives: the canvas widget and the dialogs
// around it. Points are canvas coordinates.
type Surface interface {
	SetCursor(c Cursor)
	// WarpPointer moves the system pointer onto p.
	WarpPointer(p geometry.Point2D)
	// RequestLabel asks for a label; answer with SubmitLabel or CancelLabel.
	RequestLabel(kind scene.Kind)
	// RequestDeleteConfirm asks whether s should go; answer with
	// ConfirmDelete or CancelDelete.
	RequestDeleteConfirm(s *scene.Shape)
	// SetAffordances reports the active mode and whether a shape is being
	// built. While busy no mode may change.
	SetAffordances(active Mode, busy bool)
	Refresh()
}
