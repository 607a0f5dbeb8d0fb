package scene

import "labelall/pkg/geometry"

// EdgeID identifies an edge in a Registry. Zero is never assigned.
type EdgeID int

// Side selects how an edge derives its endpoints. SideNone joins Start to End
// directly; SideOne through SideFour are the sides of a rectangle whose
// diagonal corners are Start and End.
type Side int

const (
	SideNone Side = iota
	SideOne
	SideTwo
	SideThree
	SideFour
)

// corner picks one coordinate from either rectangle corner: 0 is the first
// corner, 1 the second (or the cursor while dragging).
type corner struct{ x, y int }

// rectSides maps a side to its source and destination corner picks.
var rectSides = [5][2]corner{
	SideOne:   {{0, 0}, {0, 1}},
	SideTwo:   {{0, 0}, {1, 0}},
	SideThree: {{1, 1}, {1, 0}},
	SideFour:  {{1, 1}, {0, 1}},
}

func (c corner) pick(pts [2]geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{X: pts[c.x].X, Y: pts[c.y].Y}
}

// Edge is a rendered segment between two vertices. While End is NoVertex the
// edge is dragging and its far end follows the cursor.
// Src and Dst are icon-center coordinates, refreshed whenever a bound vertex moves.
type Edge struct {
	ID    EdgeID
	Start VertexID
	End   VertexID
	Side  Side

	Src geometry.Point2D
	Dst geometry.Point2D
}

// Dragging reports whether the edge has no destination vertex yet.
func (e *Edge) Dragging() bool {
	return e.End == NoVertex
}

// derive sets Src and Dst from the start center and the end center
// (or the cursor while dragging).
func (e *Edge) derive(start, end geometry.Point2D) {
	if e.Side == SideNone {
		e.Src, e.Dst = start, end
		return
	}
	pts := [2]geometry.Point2D{start, end}
	sd := rectSides[e.Side]
	e.Src = sd[0].pick(pts)
	e.Dst = sd[1].pick(pts)
}
