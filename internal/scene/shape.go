// Package scene holds the editable annotation graph: vertices, the edges
// drawn between them, and the ordered list of finished shapes.
package scene

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind is the type of an annotation shape.
type Kind int

const (
	KindPolygon Kind = iota
	KindRectangle
	KindLine
	KindPoint
)

var kindNames = map[Kind]string{
	KindPolygon:   "polygon",
	KindRectangle: "rectangle",
	KindLine:      "line",
	KindPoint:     "point",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a persisted shape type name into a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown shape kind %q", s)
}

// ValidCount reports whether n vertices is a legal vertex count for the kind.
func (k Kind) ValidCount(n int) bool {
	switch k {
	case KindPoint:
		return n == 1
	case KindLine, KindRectangle:
		return n == 2
	case KindPolygon:
		return n >= 3
	}
	return false
}

// Closed reports whether the kind encloses an area usable for hit-testing.
func (k Kind) Closed() bool {
	return k == KindPolygon || k == KindRectangle
}

// Shape is one finished annotation.
// Rectangles keep only their two diagonal corners in Vertices.
type Shape struct {
	ID       uuid.UUID
	Label    string
	GroupID  *int
	Kind     Kind
	Vertices []VertexID
	Edges    []EdgeID

	Flags map[string]bool
	// Extra holds keys read from disk that the editor does not interpret.
	Extra map[string]json.RawMessage

	Hidden bool
}

// DisplayName is the side-list caption, "label" or "label(group)".
func (s *Shape) DisplayName() string {
	if s.GroupID == nil {
		return s.Label
	}
	return fmt.Sprintf("%s(%d)", s.Label, *s.GroupID)
}

// ChangeType identifies what happened to the shape list.
type ChangeType int

const (
	ChangeAdded ChangeType = iota
	ChangeRemoved
	ChangeRenamed
	ChangeVisibility
	ChangeCleared
)

// Change is delivered to subscribers after every shape list mutation.
// Shape is nil for ChangeCleared.
type Change struct {
	Type  ChangeType
	Shape *Shape
}
