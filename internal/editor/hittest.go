package editor

import (
	"labelall/internal/scene"
	"labelall/pkg/geometry"
)

// inside is the strict canvas test used for every click.
func (e *Editor) inside(p geometry.Point2D) bool {
	return e.reg.Bounds().Interior(p)
}

// VertexAt returns the topmost visible vertex whose icon covers p.
func (e *Editor) VertexAt(p geometry.Point2D) scene.VertexID {
	ic := e.reg.Icon()
	vs := e.reg.Vertices()
	for i := len(vs) - 1; i >= 0; i-- {
		id := vs[i]
		if s := e.reg.Owner(id); s != nil && s.Hidden {
			continue
		}
		if ic.Hit(e.reg.Center(id), p) {
			return id
		}
	}
	return scene.NoVertex
}

// ShapeAt returns the first visible polygon or rectangle, in registry
// order, whose interior contains p. Points and lines never match.
func (e *Editor) ShapeAt(p geometry.Point2D) *scene.Shape {
	for _, s := range e.reg.Shapes() {
		if s.Hidden || !s.Kind.Closed() {
			continue
		}
		if geometry.PointInPolygon(p, e.reg.Boundary(s)) {
			return s
		}
	}
	return nil
}

// deleteTarget picks the shape the Delete key acts on at p.
func (e *Editor) deleteTarget(p geometry.Point2D) *scene.Shape {
	if s := e.ShapeAt(p); s != nil {
		return s
	}
	v := e.VertexAt(p)
	if v == scene.NoVertex {
		return nil
	}
	if s := e.reg.Owner(v); s != nil && !s.Kind.Closed() {
		return s
	}
	return nil
}
