// Package render rasterizes the annotation overlay on top of the image.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"labelall/internal/scene"
	"labelall/pkg/geometry"
)

// Style controls overlay appearance.
type Style struct {
	Color     color.RGBA // edges and vertices
	FillAlpha uint8      // alpha of the hover fill
	EdgeWidth float64
	IconSize  float64
}

// DefaultStyle matches the editor's red markers.
func DefaultStyle() Style {
	return Style{
		Color:     color.RGBA{R: 255, A: 255},
		FillAlpha: 50,
		EdgeWidth: 2,
		IconSize:  10,
	}
}

// Segment is one edge to draw.
type Segment struct {
	From, To geometry.Point2D
	Dragging bool
}

// Frame is everything drawn over the image, in image coordinates.
type Frame struct {
	Fill     []geometry.Point2D
	Edges    []Segment
	Vertices []geometry.Point2D // icon centers
}

// BuildFrame collects the visible edges and vertices of reg. Shapes that are
// hidden contribute nothing.
func BuildFrame(reg *scene.Registry, fill []geometry.Point2D) Frame {
	f := Frame{Fill: fill}
	hidden := func(v scene.VertexID) bool {
		s := reg.Owner(v)
		return s != nil && s.Hidden
	}
	for _, id := range reg.Edges() {
		e := reg.Edge(id)
		if hidden(e.Start) {
			continue
		}
		f.Edges = append(f.Edges, Segment{From: e.Src, To: e.Dst, Dragging: e.Dragging()})
	}
	for _, id := range reg.Vertices() {
		if hidden(id) {
			continue
		}
		f.Vertices = append(f.Vertices, reg.Center(id))
	}
	return f
}

// Draw scales base by zoom and paints the frame over it.
func Draw(base image.Image, zoom float64, f Frame, st Style) (*image.RGBA, error) {
	if zoom <= 0 {
		return nil, fmt.Errorf("invalid zoom %v", zoom)
	}
	var w, h int
	if base != nil {
		b := base.Bounds()
		w = int(math.Round(float64(b.Dx()) * zoom))
		h = int(math.Round(float64(b.Dy()) * zoom))
	}
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	if base != nil {
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Src, nil)
	}

	overlay, err := Overlay(dst.Bounds().Dx(), dst.Bounds().Dy(), zoom, f, st)
	if err != nil {
		return nil, err
	}
	draw.Draw(dst, dst.Bounds(), overlay, image.Point{}, draw.Over)
	return dst, nil
}

// Overlay paints the frame alone on a transparent w x h image.
func Overlay(w, h int, zoom float64, f Frame, st Style) (image.Image, error) {
	dc := gg.NewContext(w, h)
	defer dc.Close()

	r, g, b := float64(st.Color.R)/255, float64(st.Color.G)/255, float64(st.Color.B)/255
	at := func(p geometry.Point2D) (float64, float64) { return p.X * zoom, p.Y * zoom }

	if len(f.Fill) >= 3 {
		dc.SetRGBA(r, g, b, float64(st.FillAlpha)/255)
		dc.MoveTo(at(f.Fill[0]))
		for _, s := range geometry.PolygonPath(f.Fill, false) {
			dc.LineTo(at(s.To))
		}
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("fill: %w", err)
		}
	}

	dc.SetRGBA(r, g, b, 1)
	dc.SetLineWidth(st.EdgeWidth)
	for _, s := range f.Edges {
		if s.Dragging {
			// dash-dot
			dc.SetDash(6, 3, 1.5, 3)
		} else {
			dc.ClearDash()
		}
		dc.MoveTo(at(s.From))
		dc.LineTo(at(s.To))
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("stroke: %w", err)
		}
	}

	radius := st.IconSize / 2
	for _, v := range f.Vertices {
		x, y := at(v)
		dc.DrawCircle(x, y, radius)
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("vertex: %w", err)
		}
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return dc.Image(), nil
}

// Rotate turns img clockwise by the given number of quarter turns.
func Rotate(img image.Image, quarters int) image.Image {
	switch (quarters%4 + 4) % 4 {
	case 1:
		return imaging.Rotate270(img)
	case 2:
		return imaging.Rotate180(img)
	case 3:
		return imaging.Rotate90(img)
	}
	return img
}
