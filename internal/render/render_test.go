package render

import (
	"image"
	"image/color"
	"testing"

	"labelall/internal/scene"
	"labelall/pkg/geometry"
)

func gray(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 255
		} else {
			img.Pix[i] = 100
		}
	}
	return img
}

func TestDrawScalesBase(t *testing.T) {
	out, err := Draw(gray(40, 30), 2, Frame{}, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Errorf("size = %v, want 80x60", b)
	}
	if c := out.RGBAAt(79, 59); c != (color.RGBA{100, 100, 100, 255}) {
		t.Errorf("untouched pixel = %v", c)
	}
	if _, err := Draw(gray(4, 4), 0, Frame{}, DefaultStyle()); err == nil {
		t.Error("zero zoom accepted")
	}
}

func TestDrawOverlay(t *testing.T) {
	f := Frame{
		Fill:     []geometry.Point2D{{X: 10, Y: 10}, {X: 60, Y: 10}, {X: 60, Y: 60}, {X: 10, Y: 60}},
		Vertices: []geometry.Point2D{{X: 80, Y: 80}},
		Edges:    []Segment{{From: geometry.Point2D{X: 5, Y: 90}, To: geometry.Point2D{X: 95, Y: 90}}},
	}
	out, err := Draw(gray(100, 100), 1, f, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}

	inFill := out.RGBAAt(35, 35)
	if inFill.R <= 100 || inFill.G >= 100 {
		t.Errorf("fill pixel = %v, want tinted red", inFill)
	}
	if inFill.R == 255 {
		t.Errorf("fill pixel = %v, want translucent", inFill)
	}
	if c := out.RGBAAt(80, 80); c.R < 200 || c.G > 50 {
		t.Errorf("vertex center = %v, want red", c)
	}
	if c := out.RGBAAt(50, 90); c.R < 150 {
		t.Errorf("edge pixel = %v, want red", c)
	}
	if c := out.RGBAAt(90, 20); c != (color.RGBA{100, 100, 100, 255}) {
		t.Errorf("background = %v, want base color", c)
	}
}

func TestBuildFrameSkipsHidden(t *testing.T) {
	reg := scene.NewRegistry(geometry.NewRect(0, 0, 100, 100), geometry.NewIcon(10))
	a, err := reg.RestoreShape(scene.ShapeSpec{Kind: scene.KindLine, Points: []geometry.Point2D{{X: 1, Y: 1}, {X: 9, Y: 9}}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.RestoreShape(scene.ShapeSpec{Kind: scene.KindPoint, Points: []geometry.Point2D{{X: 50, Y: 50}}}); err != nil {
		t.Fatal(err)
	}
	v := reg.AddVertex(scene.KindPolygon, geometry.Point2D{X: 20, Y: 20})
	if _, err := reg.AddEdge(v, scene.NoVertex); err != nil {
		t.Fatal(err)
	}

	f := BuildFrame(reg, nil)
	if len(f.Vertices) != 4 || len(f.Edges) != 2 {
		t.Fatalf("frame = %d vertices %d edges, want 4 and 2", len(f.Vertices), len(f.Edges))
	}
	if !f.Edges[1].Dragging {
		t.Error("preview edge not marked dragging")
	}

	if err := reg.SetHidden(a.ID, true); err != nil {
		t.Fatal(err)
	}
	f = BuildFrame(reg, nil)
	if len(f.Vertices) != 2 || len(f.Edges) != 1 {
		t.Errorf("hidden line still drawn: %d vertices %d edges", len(f.Vertices), len(f.Edges))
	}
}

func TestRotate(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, red)

	tests := []struct {
		quarters int
		w, h     int
		x, y     int // where the red pixel ends up
	}{
		{0, 2, 1, 0, 0},
		{1, 1, 2, 0, 0},
		{2, 2, 1, 1, 0},
		{3, 1, 2, 0, 1},
		{-1, 1, 2, 0, 1},
		{5, 1, 2, 0, 0},
	}
	for _, tt := range tests {
		out := Rotate(src, tt.quarters)
		if b := out.Bounds(); b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("Rotate(%d) size = %v, want %dx%d", tt.quarters, b, tt.w, tt.h)
			continue
		}
		if c := color.NRGBAModel.Convert(out.At(tt.x, tt.y)); c != red {
			t.Errorf("Rotate(%d) at (%d,%d) = %v, want red", tt.quarters, tt.x, tt.y, c)
		}
	}
}
