package geometry

// Icon describes the on-screen marker drawn for a vertex. Vertex positions
// are stored as the icon's top-left anchor; every geometric test works on
// the icon center. Center and Anchor are the only conversions between the two.
type Icon struct {
	Width  float64
	Height float64
}

// NewIcon returns a square icon with the given edge length.
func NewIcon(size float64) Icon {
	return Icon{Width: size, Height: size}
}

// Half returns the offset from anchor to center.
func (ic Icon) Half() Point2D {
	return Point2D{X: ic.Width / 2, Y: ic.Height / 2}
}

// Center converts a top-left anchor into the icon center.
func (ic Icon) Center(anchor Point2D) Point2D {
	return anchor.Add(ic.Half())
}

// Anchor converts an icon center into its top-left anchor.
func (ic Icon) Anchor(center Point2D) Point2D {
	return center.Sub(ic.Half())
}

// Centers maps Center over a list of anchors.
func (ic Icon) Centers(anchors []Point2D) []Point2D {
	out := make([]Point2D, len(anchors))
	for i, a := range anchors {
		out[i] = ic.Center(a)
	}
	return out
}

// Hit reports whether p lies on the icon whose center is c.
func (ic Icon) Hit(c, p Point2D) bool {
	h := ic.Half()
	d := p.Sub(c)
	return d.X >= -h.X && d.X <= h.X && d.Y >= -h.Y && d.Y <= h.Y
}
