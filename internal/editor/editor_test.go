package editor

import (
	"errors"
	"testing"

	"labelall/internal/scene"
	"labelall/pkg/geometry"
)

// fakeSurface records every request the editor makes.
type fakeSurface struct {
	cursor    Cursor
	warps     []geometry.Point2D
	labels    []scene.Kind
	deletes   []*scene.Shape
	active    Mode
	busy      bool
	refreshes int
}

func (f *fakeSurface) SetCursor(c Cursor)                   { f.cursor = c }
func (f *fakeSurface) WarpPointer(p geometry.Point2D)        { f.warps = append(f.warps, p) }
func (f *fakeSurface) RequestLabel(k scene.Kind)             { f.labels = append(f.labels, k) }
func (f *fakeSurface) RequestDeleteConfirm(s *scene.Shape)   { f.deletes = append(f.deletes, s) }
func (f *fakeSurface) SetAffordances(active Mode, busy bool) { f.active, f.busy = active, busy }
func (f *fakeSurface) Refresh()                              { f.refreshes++ }

func pt(x, y float64) geometry.Point2D { return geometry.Point2D{X: x, Y: y} }

func newTestEditor(t *testing.T, m Mode) (*Editor, *fakeSurface) {
	t.Helper()
	reg := scene.NewRegistry(geometry.NewRect(0, 0, 800, 600), geometry.NewIcon(10))
	fs := &fakeSurface{}
	ed := New(reg, fs)
	if err := ed.SetMode(m); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	return ed, fs
}

func click(t *testing.T, ed *Editor, pts ...geometry.Point2D) {
	t.Helper()
	for _, p := range pts {
		ed.Move(p, false)
		if err := ed.Press(p); err != nil {
			t.Fatalf("Press(%v): %v", p, err)
		}
		ed.Release(p)
	}
}

func intp(v int) *int { return &v }

func TestPolygonClosesWithThreeVertices(t *testing.T) {
	ed, fs := newTestEditor(t, ModeDrawPolygon)
	click(t, ed, pt(10, 10), pt(50, 10), pt(50, 50), pt(10, 10))

	if ed.Suspended() != AwaitingLabel {
		t.Fatalf("Suspended = %v, want AwaitingLabel", ed.Suspended())
	}
	if len(fs.labels) != 1 || fs.labels[0] != scene.KindPolygon {
		t.Fatalf("label requests = %v", fs.labels)
	}
	s, err := ed.SubmitLabel("tri", nil)
	if err != nil {
		t.Fatalf("SubmitLabel: %v", err)
	}
	if s.Kind != scene.KindPolygon || len(s.Vertices) != 3 {
		t.Errorf("shape = %v with %d vertices, want triangle", s.Kind, len(s.Vertices))
	}
	if len(s.Edges) != 3 {
		t.Errorf("triangle has %d edges, want 3", len(s.Edges))
	}
	for _, id := range ed.Registry().Edges() {
		if ed.Registry().Edge(id).Dragging() {
			t.Errorf("edge %d still dragging after finalize", id)
		}
	}
	if fs.busy {
		t.Error("affordances still busy after submit")
	}
}

func TestPolygonCloseRejectedWithTwoVertices(t *testing.T) {
	ed, fs := newTestEditor(t, ModeDrawPolygon)
	click(t, ed, pt(10, 10), pt(50, 10), pt(10, 10))

	if ed.Suspended() != NotSuspended {
		t.Errorf("Suspended = %v, want NotSuspended", ed.Suspended())
	}
	if len(fs.labels) != 0 {
		t.Errorf("label requested for a two-vertex polygon")
	}
	if got := len(ed.Registry().Pending()); got != 2 {
		t.Errorf("pending vertices = %d, want 2", got)
	}
	if !ed.Busy() {
		t.Error("shape should remain under construction")
	}
}

func TestPolygonMagnet(t *testing.T) {
	ed, fs := newTestEditor(t, ModeDrawPolygon)
	click(t, ed, pt(10, 10), pt(50, 10))
	ed.Move(pt(12, 12), false)
	if len(fs.warps) != 0 {
		t.Fatalf("magnet fired with two vertices: %v", fs.warps)
	}
	click(t, ed, pt(50, 50))
	ed.Move(pt(12, 12), false)
	if len(fs.warps) != 1 || fs.warps[0] != pt(10, 10) {
		t.Errorf("warps = %v, want [(10,10)]", fs.warps)
	}
	ed.Move(pt(10, 10), false)
	if len(fs.warps) != 1 {
		t.Errorf("warped again while already on the vertex")
	}
}

func TestRectangleScenario(t *testing.T) {
	ed, fs := newTestEditor(t, ModeDrawRectangle)
	click(t, ed, pt(100, 100))
	ed.Move(pt(250, 150), false)

	preview := ed.Registry().PendingEdges()
	if len(preview) != 4 {
		t.Fatalf("preview edges = %d, want 4", len(preview))
	}
	click(t, ed, pt(300, 200))
	if len(fs.labels) != 1 || fs.labels[0] != scene.KindRectangle {
		t.Fatalf("label requests = %v", fs.labels)
	}
	s, err := ed.SubmitLabel("box", intp(1))
	if err != nil {
		t.Fatal(err)
	}
	got := ed.Registry().Centers(s)
	if len(got) != 2 || got[0] != pt(100, 100) || got[1] != pt(300, 200) {
		t.Errorf("corners = %v, want [(100,100) (300,200)]", got)
	}
	if *s.GroupID != 1 || s.Label != "box" {
		t.Errorf("label = %q group = %d", s.Label, *s.GroupID)
	}
}

func TestLineAndPoint(t *testing.T) {
	ed, fs := newTestEditor(t, ModeDrawLine)
	click(t, ed, pt(20, 20))
	// re-clicking the first vertex does nothing
	click(t, ed, pt(20, 20))
	if len(fs.labels) != 0 {
		t.Fatal("label requested after re-clicking the first line vertex")
	}
	click(t, ed, pt(80, 60))
	if _, err := ed.SubmitLabel("l", nil); err != nil {
		t.Fatal(err)
	}

	if err := ed.SetMode(ModeDrawPoint); err != nil {
		t.Fatal(err)
	}
	click(t, ed, pt(400, 300))
	if _, err := ed.SubmitLabel("p", nil); err != nil {
		t.Fatal(err)
	}
	shapes := ed.Registry().Shapes()
	if len(shapes) != 2 || shapes[0].Kind != scene.KindLine || shapes[1].Kind != scene.KindPoint {
		t.Errorf("shapes = %v", shapes)
	}
}

func TestClickOutsideCanvasIgnored(t *testing.T) {
	ed, _ := newTestEditor(t, ModeDrawPoint)
	click(t, ed, pt(0, 10), pt(-5, 5), pt(800, 100))
	if ed.Busy() || ed.Suspended() != NotSuspended {
		t.Error("clicks on or beyond the canvas border created a vertex")
	}
}

func TestSuspendedRejectsInput(t *testing.T) {
	ed, _ := newTestEditor(t, ModeDrawPoint)
	click(t, ed, pt(10, 10))
	if err := ed.Press(pt(30, 30)); !errors.Is(err, ErrSuspended) {
		t.Errorf("Press while suspended err = %v, want ErrSuspended", err)
	}
	if err := ed.Key(KeyBackspace); !errors.Is(err, ErrSuspended) {
		t.Errorf("Key while suspended err = %v, want ErrSuspended", err)
	}
	if err := ed.SetMode(ModeEdit); !errors.Is(err, ErrSuspended) {
		t.Errorf("SetMode while suspended err = %v, want ErrSuspended", err)
	}
	if err := ed.ConfirmDelete(); !errors.Is(err, ErrNotAwaitingDelete) {
		t.Errorf("ConfirmDelete err = %v, want ErrNotAwaitingDelete", err)
	}
}

func TestCancelLabelBacktracks(t *testing.T) {
	t.Run("point", func(t *testing.T) {
		ed, fs := newTestEditor(t, ModeDrawPoint)
		click(t, ed, pt(10, 10))
		if err := ed.CancelLabel(); err != nil {
			t.Fatal(err)
		}
		if ed.Busy() || len(ed.Registry().Vertices()) != 0 {
			t.Error("point vertex survived cancel")
		}
		if fs.busy {
			t.Error("affordances still busy")
		}
	})

	t.Run("line", func(t *testing.T) {
		ed, _ := newTestEditor(t, ModeDrawLine)
		click(t, ed, pt(10, 10), pt(60, 60))
		if err := ed.CancelLabel(); err != nil {
			t.Fatal(err)
		}
		reg := ed.Registry()
		if n := len(reg.Pending()); n != 1 {
			t.Fatalf("pending = %d, want 1", n)
		}
		edges := reg.PendingEdges()
		if len(edges) != 1 || !reg.Edge(edges[0]).Dragging() {
			t.Error("line should resume dragging from its first vertex")
		}
		click(t, ed, pt(70, 20))
		if ed.Suspended() != AwaitingLabel {
			t.Error("second vertex after cancel did not request a label")
		}
	})

	t.Run("rectangle", func(t *testing.T) {
		ed, _ := newTestEditor(t, ModeDrawRectangle)
		click(t, ed, pt(10, 10), pt(60, 60))
		if err := ed.CancelLabel(); err != nil {
			t.Fatal(err)
		}
		reg := ed.Registry()
		edges := reg.PendingEdges()
		if len(reg.Pending()) != 1 || len(edges) != 4 {
			t.Fatalf("pending = %d vertices %d edges, want 1 and 4", len(reg.Pending()), len(edges))
		}
		for _, id := range edges {
			if !reg.Edge(id).Dragging() {
				t.Errorf("edge %d should follow the cursor again", id)
			}
		}
	})

	t.Run("polygon", func(t *testing.T) {
		ed, _ := newTestEditor(t, ModeDrawPolygon)
		click(t, ed, pt(10, 10), pt(50, 10), pt(50, 50), pt(10, 10))
		if err := ed.CancelLabel(); err != nil {
			t.Fatal(err)
		}
		reg := ed.Registry()
		pending := reg.Pending()
		if len(pending) != 2 {
			t.Fatalf("pending = %d, want 2", len(pending))
		}
		var dragging []scene.EdgeID
		for _, id := range reg.PendingEdges() {
			if reg.Edge(id).Dragging() {
				dragging = append(dragging, id)
			}
		}
		if len(dragging) != 1 || reg.Edge(dragging[0]).Start != pending[1] {
			t.Errorf("polygon should drag from its new last vertex")
		}
		if got := len(reg.PendingEdges()); got != 2 {
			t.Errorf("pending edges = %d, want 2 (one side, one preview)", got)
		}
	})
}

func TestBackspace(t *testing.T) {
	ed, fs := newTestEditor(t, ModeDrawPolygon)
	click(t, ed, pt(10, 10), pt(50, 10), pt(50, 50))
	reg := ed.Registry()

	if err := ed.Key(KeyBackspace); err != nil {
		t.Fatal(err)
	}
	if n := len(reg.Pending()); n != 2 {
		t.Fatalf("pending after one backspace = %d, want 2", n)
	}
	for i := 0; i < 2; i++ {
		if err := ed.Key(KeyBackspace); err != nil {
			t.Fatal(err)
		}
	}
	if ed.Busy() || len(reg.Edges()) != 0 {
		t.Error("polygon not fully backtracked")
	}
	if ed.Mode() != ModeDrawPolygon {
		t.Errorf("Mode = %v, tool should stay selected", ed.Mode())
	}
	if fs.busy {
		t.Error("editing affordances not restored")
	}
	if err := ed.Key(KeyBackspace); err != nil {
		t.Errorf("backspace on empty construction: %v", err)
	}
}

func TestEscapeDiscards(t *testing.T) {
	ed, _ := newTestEditor(t, ModeDrawRectangle)
	click(t, ed, pt(10, 10))
	if err := ed.Key(KeyEscape); err != nil {
		t.Fatal(err)
	}
	if ed.Busy() || len(ed.Registry().Edges()) != 0 {
		t.Error("escape left construction behind")
	}
}

func restore(t *testing.T, reg *scene.Registry, kind scene.Kind, label string, pts ...geometry.Point2D) *scene.Shape {
	t.Helper()
	s, err := reg.RestoreShape(scene.ShapeSpec{Kind: kind, Label: label, Points: pts})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDeleteFlow(t *testing.T) {
	ed, fs := newTestEditor(t, ModeEdit)
	reg := ed.Registry()
	sq := restore(t, reg, scene.KindPolygon, "sq", pt(100, 100), pt(200, 100), pt(200, 200), pt(100, 200))
	ln := restore(t, reg, scene.KindLine, "ln", pt(400, 400), pt(500, 400))

	ed.Move(pt(150, 150), false)
	if err := ed.Key(KeyDelete); err != nil {
		t.Fatal(err)
	}
	if len(fs.deletes) != 1 || fs.deletes[0] != sq {
		t.Fatalf("delete requests = %v", fs.deletes)
	}
	if err := ed.CancelDelete(); err != nil {
		t.Fatal(err)
	}
	if reg.Shape(sq.ID) == nil {
		t.Fatal("cancel removed the shape")
	}

	ed.Move(pt(150, 150), false)
	if err := ed.Key(KeyDelete); err != nil {
		t.Fatal(err)
	}
	if err := ed.ConfirmDelete(); err != nil {
		t.Fatal(err)
	}
	if reg.Shape(sq.ID) != nil {
		t.Error("confirmed shape still registered")
	}
	if ed.Fill() != nil {
		t.Error("fill overlay outlived its shape")
	}

	// line vertex under the cursor
	ed.Move(pt(501, 401), false)
	if err := ed.Key(KeyDelete); err != nil {
		t.Fatal(err)
	}
	if len(fs.deletes) != 3 || fs.deletes[2] != ln {
		t.Fatalf("line delete not requested: %v", fs.deletes)
	}
	if err := ed.ConfirmDelete(); err != nil {
		t.Fatal(err)
	}
	if len(reg.Vertices()) != 0 || len(reg.Edges()) != 0 {
		t.Error("deleted shapes left vertices or edges")
	}
}

func TestDeleteSkipsHidden(t *testing.T) {
	ed, fs := newTestEditor(t, ModeEdit)
	reg := ed.Registry()
	sq := restore(t, reg, scene.KindRectangle, "r", pt(100, 100), pt(200, 200))
	if err := reg.SetHidden(sq.ID, true); err != nil {
		t.Fatal(err)
	}
	ed.Move(pt(150, 150), false)
	if err := ed.Key(KeyDelete); err != nil {
		t.Fatal(err)
	}
	if len(fs.deletes) != 0 {
		t.Error("hidden shape offered for deletion")
	}
}

func TestShapeAtOrder(t *testing.T) {
	ed, _ := newTestEditor(t, ModeEdit)
	reg := ed.Registry()
	restore(t, reg, scene.KindPoint, "p", pt(150, 150))
	first := restore(t, reg, scene.KindRectangle, "a", pt(100, 100), pt(300, 300))
	restore(t, reg, scene.KindPolygon, "b", pt(120, 120), pt(200, 120), pt(200, 200))
	if got := ed.ShapeAt(pt(150, 140)); got != first {
		t.Errorf("ShapeAt = %v, want the first registered closed shape", got)
	}
	if got := ed.ShapeAt(pt(500, 500)); got != nil {
		t.Errorf("ShapeAt outside everything = %v", got)
	}
}

func TestEditDragShape(t *testing.T) {
	ed, fs := newTestEditor(t, ModeEdit)
	reg := ed.Registry()
	r := restore(t, reg, scene.KindRectangle, "r", pt(100, 100), pt(300, 200))

	ed.Move(pt(150, 150), false)
	if fill := ed.Fill(); len(fill) != 4 {
		t.Fatalf("hover fill = %v, want 4 corners", fill)
	}
	before := fs.refreshes
	ed.Move(pt(151, 150), false)
	if fs.refreshes != before {
		t.Error("hovering the same unchanged shape triggered a redraw")
	}

	if err := ed.Press(pt(150, 150)); err != nil {
		t.Fatal(err)
	}
	ed.Move(pt(160, 170), true)
	if got := reg.Centers(r); got[0] != pt(110, 120) || got[1] != pt(310, 220) {
		t.Errorf("after drag corners = %v", got)
	}
	if fs.cursor != CursorHand {
		t.Errorf("cursor = %v, want hand while dragging", fs.cursor)
	}
	if fill := ed.Fill(); fill[0] != pt(110, 120) {
		t.Errorf("fill not recomputed after move: %v", fill)
	}

	// would push the second corner past x=800
	ed.Move(pt(700, 170), true)
	if got := reg.Centers(r); got[1] != pt(310, 220) {
		t.Errorf("rejected step moved the shape: %v", got)
	}
	// the rejected step does not advance the reference point
	ed.Move(pt(170, 170), true)
	if got := reg.Centers(r); got[0] != pt(120, 120) {
		t.Errorf("corners = %v, want first at (120,120)", got)
	}
	ed.Release(pt(170, 170))
	if fs.cursor != CursorArrow {
		t.Errorf("cursor after release = %v", fs.cursor)
	}
}

func TestIdleVertexDragClamps(t *testing.T) {
	ed, _ := newTestEditor(t, ModeIdle)
	reg := ed.Registry()
	s := restore(t, reg, scene.KindPoint, "p", pt(10, 10))
	if err := ed.Press(pt(11, 11)); err != nil {
		t.Fatal(err)
	}
	ed.Move(pt(-40, 900), true)
	ed.Release(pt(-40, 900))
	if got := reg.Center(s.Vertices[0]); got != pt(0, 600) {
		t.Errorf("center = %v, want clamped to (0,600)", got)
	}
}

func TestEditMagnetOnLineVertex(t *testing.T) {
	ed, fs := newTestEditor(t, ModeEdit)
	reg := ed.Registry()
	restore(t, reg, scene.KindLine, "l", pt(300, 300), pt(400, 300))
	restore(t, reg, scene.KindPolygon, "poly", pt(500, 500), pt(600, 500), pt(600, 580))

	ed.Move(pt(403, 298), false)
	if len(fs.warps) != 1 || fs.warps[0] != pt(400, 300) {
		t.Errorf("warps = %v, want [(400,300)]", fs.warps)
	}
	// polygon vertices do not attract the pointer
	ed.Move(pt(502, 497), false)
	if len(fs.warps) != 1 {
		t.Errorf("polygon vertex triggered the magnet: %v", fs.warps)
	}
}

func TestSetModeDiscardsConstruction(t *testing.T) {
	ed, fs := newTestEditor(t, ModeDrawPolygon)
	click(t, ed, pt(10, 10), pt(50, 10))
	if !fs.busy {
		t.Fatal("affordances not busy during construction")
	}
	if err := ed.SetMode(ModeEdit); err != nil {
		t.Fatal(err)
	}
	if ed.Busy() || len(ed.Registry().Vertices()) != 0 {
		t.Error("mode change kept partial shape")
	}
	if fs.active != ModeEdit || fs.busy {
		t.Errorf("affordances = %v busy=%v", fs.active, fs.busy)
	}
}
