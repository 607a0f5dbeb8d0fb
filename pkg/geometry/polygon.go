package geometry

// PointInPolygon tests if a point is inside a polygon using ray casting.
// Points exactly on an edge get a fixed answer for a given input, but which
// side they fall on depends on the edge orientation.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// RectCorners expands two diagonal corners into the four corners of the
// axis-aligned box, in drawing order: a, (a.X, b.Y), b, (b.X, a.Y).
func RectCorners(a, b Point2D) []Point2D {
	return []Point2D{
		a,
		{X: a.X, Y: b.Y},
		b,
		{X: b.X, Y: a.Y},
	}
}

// Segment is a straight line between two points.
type Segment struct {
	From, To Point2D
}

// PolygonPath returns the ordered segments joining points. When closed is
// true a final segment joins the last point back to the first.
func PolygonPath(points []Point2D, closed bool) []Segment {
	if len(points) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(points))
	for i := 0; i+1 < len(points); i++ {
		segs = append(segs, Segment{From: points[i], To: points[i+1]})
	}
	if closed && len(points) > 2 {
		segs = append(segs, Segment{From: points[len(points)-1], To: points[0]})
	}
	return segs
}
