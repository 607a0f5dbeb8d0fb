package scene

import "labelall/pkg/geometry"

// VertexID identifies a vertex in a Registry. Zero is never assigned.
type VertexID int

// NoVertex is the end of an edge that is still following the cursor.
const NoVertex VertexID = 0

// Vertex is a draggable control point. Anchor is the top-left corner of the
// vertex icon; use Registry.Center for the logical position.
type Vertex struct {
	ID     VertexID
	Anchor geometry.Point2D
	Kind   Kind
}
