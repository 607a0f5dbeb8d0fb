package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"labelall/pkg/geometry"
)

var (
	ErrVertexCount    = errors.New("vertex count does not match shape kind")
	ErrNothingPending = errors.New("no shape under construction")
	ErrUnknownShape   = errors.New("unknown shape")
	ErrUnknownVertex  = errors.New("unknown vertex")
	ErrUnknownEdge    = errors.New("unknown edge")
	ErrEdgeConnected  = errors.New("edge already connected")
	ErrVertexFinal    = errors.New("vertex belongs to a finished shape")
)

// Registry owns every vertex, edge and shape of one document.
// It is not safe for concurrent use; all calls happen on the UI goroutine.
type Registry struct {
	bounds geometry.Rect
	icon   geometry.Icon

	nextVertex VertexID
	nextEdge   EdgeID

	vertices    map[VertexID]*Vertex
	vertexOrder []VertexID
	edges       map[EdgeID]*Edge
	edgeOrder   []EdgeID
	incident    map[VertexID][]EdgeID
	owner       map[VertexID]*Shape

	shapes []*Shape

	// In-progress construction
	pendingKind     Kind
	pendingVertices []VertexID
	pendingEdges    []EdgeID

	cursor geometry.Point2D

	subscribers []func(Change)
}

// NewRegistry creates an empty registry for a canvas of the given bounds.
func NewRegistry(bounds geometry.Rect, icon geometry.Icon) *Registry {
	return &Registry{
		bounds:   bounds,
		icon:     icon,
		vertices: make(map[VertexID]*Vertex),
		edges:    make(map[EdgeID]*Edge),
		incident: make(map[VertexID][]EdgeID),
		owner:    make(map[VertexID]*Shape),
	}
}

// Bounds returns the canvas rectangle.
func (r *Registry) Bounds() geometry.Rect { return r.bounds }

// SetBounds replaces the canvas rectangle. Existing positions are not clamped.
func (r *Registry) SetBounds(b geometry.Rect) { r.bounds = b }

// Icon returns the vertex icon used for centering.
func (r *Registry) Icon() geometry.Icon { return r.icon }

// Subscribe registers fn to be called after each shape list change.
func (r *Registry) Subscribe(fn func(Change)) {
	r.subscribers = append(r.subscribers, fn)
}

func (r *Registry) notify(t ChangeType, s *Shape) {
	c := Change{Type: t, Shape: s}
	for _, fn := range r.subscribers {
		fn(c)
	}
}

// Vertex returns the vertex with the given id, or nil.
func (r *Registry) Vertex(id VertexID) *Vertex { return r.vertices[id] }

// Edge returns the edge with the given id, or nil.
func (r *Registry) Edge(id EdgeID) *Edge { return r.edges[id] }

// Vertices returns all vertex ids, oldest first.
func (r *Registry) Vertices() []VertexID { return slices.Clone(r.vertexOrder) }

// Edges returns all edge ids, oldest first.
func (r *Registry) Edges() []EdgeID { return slices.Clone(r.edgeOrder) }

// Center returns the icon center of a vertex.
func (r *Registry) Center(id VertexID) geometry.Point2D {
	v := r.vertices[id]
	if v == nil {
		return geometry.Point2D{}
	}
	return r.icon.Center(v.Anchor)
}

// Owner returns the finished shape a vertex belongs to, or nil for
// vertices of the shape under construction.
func (r *Registry) Owner(id VertexID) *Shape { return r.owner[id] }

// AddVertex places a new vertex of the given kind centered at p, clamped to
// the canvas, and appends it to the shape under construction.
func (r *Registry) AddVertex(kind Kind, p geometry.Point2D) VertexID {
	r.nextVertex++
	v := &Vertex{ID: r.nextVertex, Kind: kind}
	v.Anchor = r.icon.Anchor(r.bounds.Clamp(p))
	r.vertices[v.ID] = v
	r.vertexOrder = append(r.vertexOrder, v.ID)
	r.pendingKind = kind
	r.pendingVertices = append(r.pendingVertices, v.ID)
	return v.ID
}

// RemoveVertex deletes a vertex of the shape under construction together
// with every edge touching it.
func (r *Registry) RemoveVertex(id VertexID) error {
	if _, ok := r.vertices[id]; !ok {
		return fmt.Errorf("remove vertex %d: %w", id, ErrUnknownVertex)
	}
	if r.owner[id] != nil {
		return fmt.Errorf("remove vertex %d: %w", id, ErrVertexFinal)
	}
	r.dropVertex(id)
	r.pendingVertices = slices.DeleteFunc(r.pendingVertices, func(v VertexID) bool { return v == id })
	return nil
}

func (r *Registry) dropVertex(id VertexID) {
	for _, eid := range slices.Clone(r.incident[id]) {
		r.dropEdge(eid)
	}
	delete(r.incident, id)
	delete(r.vertices, id)
	delete(r.owner, id)
	r.vertexOrder = slices.DeleteFunc(r.vertexOrder, func(v VertexID) bool { return v == id })
}

// AddEdge joins start to end with a straight edge. Pass NoVertex as end for
// an edge that follows the cursor.
func (r *Registry) AddEdge(start, end VertexID) (EdgeID, error) {
	id, err := r.addEdge(start, end, SideNone)
	if err != nil {
		return 0, err
	}
	r.pendingEdges = append(r.pendingEdges, id)
	return id, nil
}

// AddRectEdges creates the four sides of a rectangle with diagonal corners
// c1 and c2. Pass NoVertex as c2 to preview the box against the cursor.
func (r *Registry) AddRectEdges(c1, c2 VertexID) ([]EdgeID, error) {
	ids := make([]EdgeID, 0, 4)
	for side := SideOne; side <= SideFour; side++ {
		id, err := r.addEdge(c1, c2, side)
		if err != nil {
			for _, e := range ids {
				r.dropEdge(e)
			}
			return nil, err
		}
		ids = append(ids, id)
	}
	r.pendingEdges = append(r.pendingEdges, ids...)
	return ids, nil
}

func (r *Registry) addEdge(start, end VertexID, side Side) (EdgeID, error) {
	if _, ok := r.vertices[start]; !ok {
		return 0, fmt.Errorf("add edge from %d: %w", start, ErrUnknownVertex)
	}
	if _, ok := r.vertices[end]; end != NoVertex && !ok {
		return 0, fmt.Errorf("add edge to %d: %w", end, ErrUnknownVertex)
	}
	r.nextEdge++
	e := &Edge{ID: r.nextEdge, Start: start, End: end, Side: side}
	r.edges[e.ID] = e
	r.edgeOrder = append(r.edgeOrder, e.ID)
	r.incident[start] = append(r.incident[start], e.ID)
	if end != NoVertex && end != start {
		r.incident[end] = append(r.incident[end], e.ID)
	}
	r.recompute(e)
	return e.ID, nil
}

// ConnectEdge gives a dragging edge its destination vertex. A connected
// edge never returns to dragging.
func (r *Registry) ConnectEdge(id EdgeID, end VertexID) error {
	e := r.edges[id]
	if e == nil {
		return fmt.Errorf("connect edge %d: %w", id, ErrUnknownEdge)
	}
	if !e.Dragging() {
		return fmt.Errorf("connect edge %d: %w", id, ErrEdgeConnected)
	}
	if _, ok := r.vertices[end]; !ok || end == NoVertex {
		return fmt.Errorf("connect edge %d to %d: %w", id, end, ErrUnknownVertex)
	}
	e.End = end
	if end != e.Start {
		r.incident[end] = append(r.incident[end], id)
	}
	r.recompute(e)
	return nil
}

// RemoveEdge deletes an edge.
func (r *Registry) RemoveEdge(id EdgeID) error {
	if _, ok := r.edges[id]; !ok {
		return fmt.Errorf("remove edge %d: %w", id, ErrUnknownEdge)
	}
	r.dropEdge(id)
	return nil
}

func (r *Registry) dropEdge(id EdgeID) {
	e := r.edges[id]
	if e == nil {
		return
	}
	isID := func(x EdgeID) bool { return x == id }
	r.incident[e.Start] = slices.DeleteFunc(r.incident[e.Start], isID)
	if e.End != NoVertex {
		r.incident[e.End] = slices.DeleteFunc(r.incident[e.End], isID)
	}
	delete(r.edges, id)
	r.edgeOrder = slices.DeleteFunc(r.edgeOrder, isID)
	r.pendingEdges = slices.DeleteFunc(r.pendingEdges, isID)
	for _, s := range r.shapes {
		s.Edges = slices.DeleteFunc(s.Edges, isID)
	}
}

func (r *Registry) recompute(e *Edge) {
	end := r.cursor
	if !e.Dragging() {
		end = r.Center(e.End)
	}
	e.derive(r.Center(e.Start), end)
}

// SetCursor records the live pointer position and updates every dragging edge.
func (r *Registry) SetCursor(p geometry.Point2D) {
	r.cursor = p
	for _, id := range r.edgeOrder {
		if e := r.edges[id]; e.Dragging() {
			r.recompute(e)
		}
	}
}

// Cursor returns the last pointer position given to SetCursor.
func (r *Registry) Cursor() geometry.Point2D { return r.cursor }

// MoveVertex centers a vertex on p, clamped to the canvas so the icon center
// never leaves it, and refreshes every edge bound to the vertex.
// It returns the center actually used.
func (r *Registry) MoveVertex(id VertexID, p geometry.Point2D) (geometry.Point2D, error) {
	v := r.vertices[id]
	if v == nil {
		return geometry.Point2D{}, fmt.Errorf("move vertex %d: %w", id, ErrUnknownVertex)
	}
	c := r.bounds.Clamp(p)
	v.Anchor = r.icon.Anchor(c)
	r.refresh(id)
	return c, nil
}

func (r *Registry) refresh(id VertexID) {
	for _, eid := range r.incident[id] {
		r.recompute(r.edges[eid])
	}
}

// TranslateShape moves every vertex of a shape by delta. If any vertex center
// would leave the canvas interior nothing moves and false is returned.
func (r *Registry) TranslateShape(id uuid.UUID, delta geometry.Point2D) (bool, error) {
	s := r.Shape(id)
	if s == nil {
		return false, fmt.Errorf("translate %s: %w", id, ErrUnknownShape)
	}
	for _, vid := range s.Vertices {
		if !r.bounds.Interior(r.Center(vid).Add(delta)) {
			return false, nil
		}
	}
	for _, vid := range s.Vertices {
		v := r.vertices[vid]
		v.Anchor = v.Anchor.Add(delta)
	}
	for _, vid := range s.Vertices {
		r.refresh(vid)
	}
	return true, nil
}

// Pending returns the vertices of the shape under construction in placement order.
func (r *Registry) Pending() []VertexID { return slices.Clone(r.pendingVertices) }

// PendingEdges returns the edges of the shape under construction.
func (r *Registry) PendingEdges() []EdgeID { return slices.Clone(r.pendingEdges) }

// DiscardPending removes the shape under construction entirely.
func (r *Registry) DiscardPending() {
	for _, id := range r.pendingEdges {
		r.dropEdge(id)
	}
	for _, id := range r.pendingVertices {
		r.dropVertex(id)
	}
	r.pendingVertices = nil
	r.pendingEdges = nil
}

// FinalizeShape turns the shape under construction into a finished shape and
// clears the construction buffers. Edges still following the cursor are removed.
func (r *Registry) FinalizeShape(label string, groupID *int) (*Shape, error) {
	if len(r.pendingVertices) == 0 {
		return nil, ErrNothingPending
	}
	if !r.pendingKind.ValidCount(len(r.pendingVertices)) {
		return nil, fmt.Errorf("finalize %s with %d vertices: %w",
			r.pendingKind, len(r.pendingVertices), ErrVertexCount)
	}
	for _, id := range slices.Clone(r.pendingEdges) {
		if r.edges[id].Dragging() {
			r.dropEdge(id)
		}
	}
	s := &Shape{
		ID:       uuid.New(),
		Label:    label,
		GroupID:  groupID,
		Kind:     r.pendingKind,
		Vertices: r.pendingVertices,
		Edges:    r.pendingEdges,
		Flags:    map[string]bool{},
	}
	r.pendingVertices = nil
	r.pendingEdges = nil
	r.adopt(s)
	return s, nil
}

func (r *Registry) adopt(s *Shape) {
	for _, vid := range s.Vertices {
		r.owner[vid] = s
	}
	r.shapes = append(r.shapes, s)
	r.notify(ChangeAdded, s)
}

// ShapeSpec describes a finished shape by its vertex centers, as read from disk.
type ShapeSpec struct {
	Label   string
	GroupID *int
	Kind    Kind
	Points  []geometry.Point2D
	Flags   map[string]bool
	Extra   map[string]json.RawMessage
}

// RestoreShape builds a finished shape with connected edges directly from
// stored centers. The shape under construction is not touched.
func (r *Registry) RestoreShape(spec ShapeSpec) (*Shape, error) {
	if !spec.Kind.ValidCount(len(spec.Points)) {
		return nil, fmt.Errorf("restore %s with %d points: %w", spec.Kind, len(spec.Points), ErrVertexCount)
	}
	s := &Shape{
		ID:      uuid.New(),
		Label:   spec.Label,
		GroupID: spec.GroupID,
		Kind:    spec.Kind,
		Flags:   spec.Flags,
		Extra:   spec.Extra,
	}
	if s.Flags == nil {
		s.Flags = map[string]bool{}
	}
	for _, p := range spec.Points {
		r.nextVertex++
		v := &Vertex{ID: r.nextVertex, Kind: spec.Kind, Anchor: r.icon.Anchor(p)}
		r.vertices[v.ID] = v
		r.vertexOrder = append(r.vertexOrder, v.ID)
		s.Vertices = append(s.Vertices, v.ID)
	}

	link := func(a, b VertexID, side Side) {
		// vertices were created above, addEdge cannot fail
		id, _ := r.addEdge(a, b, side)
		s.Edges = append(s.Edges, id)
	}
	vs := s.Vertices
	switch s.Kind {
	case KindLine:
		link(vs[0], vs[1], SideNone)
	case KindRectangle:
		for side := SideOne; side <= SideFour; side++ {
			link(vs[0], vs[1], side)
		}
	case KindPolygon:
		for i := range vs {
			link(vs[i], vs[(i+1)%len(vs)], SideNone)
		}
	}
	r.adopt(s)
	return s, nil
}

// Shape returns the finished shape with the given id, or nil.
func (r *Registry) Shape(id uuid.UUID) *Shape {
	for _, s := range r.shapes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Shapes returns the finished shapes in creation order.
func (r *Registry) Shapes() []*Shape { return slices.Clone(r.shapes) }

// RemoveShape deletes a finished shape with all of its vertices and edges.
func (r *Registry) RemoveShape(id uuid.UUID) error {
	i := slices.IndexFunc(r.shapes, func(s *Shape) bool { return s.ID == id })
	if i < 0 {
		return fmt.Errorf("remove shape %s: %w", id, ErrUnknownShape)
	}
	s := r.shapes[i]
	r.shapes = slices.Delete(r.shapes, i, i+1)
	for _, vid := range s.Vertices {
		r.dropVertex(vid)
	}
	s.Edges = nil
	r.notify(ChangeRemoved, s)
	return nil
}

// RenameShape changes the label and group id of a finished shape.
func (r *Registry) RenameShape(id uuid.UUID, label string, groupID *int) error {
	s := r.Shape(id)
	if s == nil {
		return fmt.Errorf("rename shape %s: %w", id, ErrUnknownShape)
	}
	s.Label = label
	s.GroupID = groupID
	r.notify(ChangeRenamed, s)
	return nil
}

// SetHidden shows or hides a finished shape as a whole.
func (r *Registry) SetHidden(id uuid.UUID, hidden bool) error {
	s := r.Shape(id)
	if s == nil {
		return fmt.Errorf("hide shape %s: %w", id, ErrUnknownShape)
	}
	if s.Hidden == hidden {
		return nil
	}
	s.Hidden = hidden
	r.notify(ChangeVisibility, s)
	return nil
}

// Clear removes everything, including the shape under construction.
func (r *Registry) Clear() {
	r.vertices = make(map[VertexID]*Vertex)
	r.edges = make(map[EdgeID]*Edge)
	r.incident = make(map[VertexID][]EdgeID)
	r.owner = make(map[VertexID]*Shape)
	r.vertexOrder = nil
	r.edgeOrder = nil
	r.shapes = nil
	r.pendingVertices = nil
	r.pendingEdges = nil
	r.notify(ChangeCleared, nil)
}

// Centers returns the icon centers of a shape's stored vertices.
func (r *Registry) Centers(s *Shape) []geometry.Point2D {
	out := make([]geometry.Point2D, len(s.Vertices))
	for i, vid := range s.Vertices {
		out[i] = r.Center(vid)
	}
	return out
}

// Boundary returns the closed outline of a polygon or rectangle in center
// coordinates, with rectangles expanded to four corners. Other kinds have none.
func (r *Registry) Boundary(s *Shape) []geometry.Point2D {
	switch s.Kind {
	case KindPolygon:
		return r.Centers(s)
	case KindRectangle:
		c := r.Centers(s)
		return geometry.RectCorners(c[0], c[1])
	}
	return nil
}
