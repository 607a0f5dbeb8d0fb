package canvas

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"labelall/internal/editor"
	labelimage "labelall/internal/image"
	"labelall/internal/render"
	"labelall/internal/scene"
	"labelall/pkg/geometry"
)

func newTestCanvas(t *testing.T, w, h int) *AnnotationCanvas {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	layer := labelimage.NewLayer()
	layer.Image = image.NewRGBA(image.Rect(0, 0, w, h))
	reg := scene.NewRegistry(layer.Bounds(), geometry.NewIcon(10))
	ac := NewAnnotationCanvas(reg, render.DefaultStyle())
	ac.SetLayer(layer)
	return ac
}

func click(ac *AnnotationCanvas, x, y float32) {
	ev := &desktop.MouseEvent{Button: desktop.MouseButtonPrimary}
	ev.Position = fyne.NewPos(x, y)
	ac.content.MouseMoved(ev)
	ac.content.MouseDown(ev)
	ac.content.MouseUp(ev)
}

func TestRectangleThroughPointerEvents(t *testing.T) {
	ac := newTestCanvas(t, 800, 600)
	ac.SetZoom(2)

	var requested []scene.Kind
	ac.OnLabelRequest(func(k scene.Kind) { requested = append(requested, k) })
	ed := ac.Editor()
	if err := ed.SetMode(editor.ModeDrawRectangle); err != nil {
		t.Fatal(err)
	}
	var busy []bool
	ac.OnAffordances(func(_ editor.Mode, b bool) { busy = append(busy, b) })
	click(ac, 200, 200)
	click(ac, 600, 400)

	if len(requested) != 1 || requested[0] != scene.KindRectangle {
		t.Fatalf("label requests = %v", requested)
	}
	if len(busy) == 0 || !busy[0] {
		t.Errorf("affordance updates = %v, want busy first", busy)
	}
	s, err := ed.SubmitLabel("box", nil)
	if err != nil {
		t.Fatal(err)
	}
	c := ed.Registry().Centers(s)
	if c[0] != (geometry.Point2D{X: 100, Y: 100}) || c[1] != (geometry.Point2D{X: 300, Y: 200}) {
		t.Errorf("centers = %v", c)
	}
}

func TestCoordinateConversion(t *testing.T) {
	ac := newTestCanvas(t, 100, 100)
	ac.SetZoom(2.5)
	p := geometry.Point2D{X: 10, Y: 20}
	if got := ac.CanvasToImage(ac.ImageToCanvas(p)); got != p {
		t.Errorf("round trip = %v", got)
	}
	ac.SetZoom(100)
	if ac.GetZoom() != maxZoom {
		t.Errorf("zoom = %v, want clamp to %v", ac.GetZoom(), maxZoom)
	}
}

func TestEscapeDiscardsConstruction(t *testing.T) {
	ac := newTestCanvas(t, 200, 200)
	ed := ac.Editor()
	if err := ed.SetMode(editor.ModeDrawPolygon); err != nil {
		t.Fatal(err)
	}
	click(ac, 10, 10)
	click(ac, 50, 10)
	if !ed.Busy() {
		t.Fatal("not busy after two clicks")
	}
	ac.content.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	if ed.Busy() || len(ed.Registry().Vertices()) != 0 {
		t.Errorf("busy = %v, vertices = %d", ed.Busy(), len(ed.Registry().Vertices()))
	}
}

func TestRenderSize(t *testing.T) {
	ac := newTestCanvas(t, 200, 100)
	ac.SetZoom(2)
	img := ac.draw(400, 200)
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("rendered %v", b)
	}
}

func TestDesktopCursor(t *testing.T) {
	tests := []struct {
		in   editor.Cursor
		want desktop.Cursor
	}{
		{editor.CursorArrow, desktop.DefaultCursor},
		{editor.CursorCross, desktop.CrosshairCursor},
		{editor.CursorHand, desktop.PointerCursor},
	}
	for _, tt := range tests {
		if got := desktopCursor(tt.in); got != tt.want {
			t.Errorf("desktopCursor(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRotatedView(t *testing.T) {
	ac := newTestCanvas(t, 200, 100)
	ac.RotateClockwise()
	if ac.Rotation() != 90 {
		t.Fatalf("rotation = %d", ac.Rotation())
	}
	if ac.imgSize != fyne.NewSize(100, 200) {
		t.Errorf("content size = %v, want 100x200", ac.imgSize)
	}
	if b := ac.draw(100, 200).Bounds(); b.Dx() != 100 || b.Dy() != 200 {
		t.Errorf("rendered %v", b)
	}

	p := geometry.Point2D{X: 10, Y: 20}
	if got := ac.ImageToCanvas(p); got != fyne.NewPos(80, 10) {
		t.Errorf("ImageToCanvas at 90 = %v, want (80,10)", got)
	}

	ed := ac.Editor()
	if err := ed.SetMode(editor.ModeDrawPoint); err != nil {
		t.Fatal(err)
	}
	ac.OnLabelRequest(func(scene.Kind) {})
	click(ac, 80, 10)
	s, err := ed.SubmitLabel("dot", nil)
	if err != nil {
		t.Fatal(err)
	}
	if c := ed.Registry().Centers(s); c[0] != p {
		t.Errorf("point placed at %v, want %v", c[0], p)
	}

	for i, want := range []int{180, 270, 0} {
		ac.RotateClockwise()
		if ac.Rotation() != want {
			t.Errorf("step %d: rotation = %d, want %d", i, ac.Rotation(), want)
		}
		ac.SetZoom(1.5)
		if got := ac.CanvasToImage(ac.ImageToCanvas(p)); got.Distance(p) > 1e-4 {
			t.Errorf("round trip at %d = %v", ac.Rotation(), got)
		}
	}
	ac.RotateCounterClockwise()
	if ac.Rotation() != 270 {
		t.Errorf("counter-clockwise from 0 = %d, want 270", ac.Rotation())
	}
}
