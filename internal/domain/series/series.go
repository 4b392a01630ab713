// Package series maps metric history onto pixel coordinates inside a graph
// region and places the scrub indicator along the mapped line.
package series

// FixedScale is the denominator of a fixed-point history index. Index i is
// i*FixedScale.
const FixedScale = 1000

// Default geometry of the graph region.
const (
	DefaultMargin  = 2
	DefaultPadding = 4
)

// Point is a pixel coordinate. Y grows downward.
type Point struct {
	X int
	Y int
}

// Rect is the size of the drawing region.
type Rect struct {
	W int
	H int
}

// Geometry holds the fixed spacing around the drawable area.
type Geometry struct {
	Margin  int
	Padding int
}

// DefaultGeometry returns the stock margin and padding.
func DefaultGeometry() Geometry {
	return Geometry{Margin: DefaultMargin, Padding: DefaultPadding}
}

// Range is the value span of a series. Span is never zero.
type Range struct {
	Min  int64
	Max  int64
	Span int64
}

// CalculateRange returns the min/max of values. A flat series gets a span of
// one. An empty slice yields the zero range with span one.
func CalculateRange(values []int64) Range {
	if len(values) == 0 {
		return Range{Span: 1}
	}
	r := Range{Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	r.Span = r.Max - r.Min
	if r.Span == 0 {
		r.Span = 1
	}
	return r
}

// Layout maps values into bounds. It returns nil when fewer than two samples
// are present, since no line can be drawn.
func Layout(values []int64, bounds Rect, g Geometry) []Point {
	return AppendLayout(nil, values, bounds, g)
}

// AppendLayout is Layout writing into dst, which lets callers reuse a buffer
// across frames.
func AppendLayout(dst []Point, values []int64, bounds Rect, g Geometry) []Point {
	n := len(values)
	if n < 2 {
		return dst[:0]
	}
	r := CalculateRange(values)
	w := int64(bounds.W - g.Padding)
	h := int64(bounds.H - g.Padding)
	m := int64(g.Margin)

	dst = dst[:0]
	for i, v := range values {
		x := m + int64(i)*w/int64(n-1)
		y := m + h - (v-r.Min)*h/r.Span
		dst = append(dst, Point{X: int(x), Y: int(y)})
	}
	return dst
}

// Last returns the newest mapped point.
func Last(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	return points[len(points)-1], true
}

// Indicator interpolates between the two points bracketing indexFixed. Past
// either end the first or last segment is extended, so bounce overshoot is
// drawn outside the line.
func Indicator(points []Point, indexFixed int32) Point {
	n := len(points)
	switch n {
	case 0:
		return Point{}
	case 1:
		return points[0]
	}

	idx := int(indexFixed / FixedScale)
	frac := int64(indexFixed % FixedScale)
	if indexFixed < 0 {
		idx = 0
		frac = int64(indexFixed)
	}
	if idx >= n-1 {
		idx = n - 2
		frac = FixedScale + (int64(indexFixed) - int64(n-1)*FixedScale)
	}

	a, b := points[idx], points[idx+1]
	return Point{
		X: a.X + int(int64(b.X-a.X)*frac/FixedScale),
		Y: a.Y + int(int64(b.Y-a.Y)*frac/FixedScale),
	}
}
