package geom

// BoxGeometry is the capability every annotation usable by tiling, NMS,
// CPD, and TPS must expose. Rectangle and KeypointRectangle both
// implement it; tile rebasing (§4.3) requires the mutator methods so a
// detection's coordinates can be shifted in place as it crosses tile
// boundaries.
type BoxGeometry interface {
	Left() float64
	Top() float64
	Right() float64
	Bottom() float64
	Category() string

	SetLeft(float64)
	SetTop(float64)
	SetRight(float64)
	SetBottom(float64)

	Area() float64
	Center() Point
	AsXYXY() (left, top, right, bottom float64)
}

// Rectangle is an axis-aligned bounding box with a category label.
type Rectangle struct {
	left, top, right, bottom float64
	category                 string
}

// NewRectangle validates and constructs a Rectangle. A zero-area
// ("degenerate") rectangle is legal; left==right or top==bottom alone
// does not fail construction.
func NewRectangle(left, top, right, bottom float64, category string) (*Rectangle, error) {
	if left > right {
		return nil, &BoundingBoxError{Kind: InvalidLeftRight, Left: left, Right: right}
	}
	if top > bottom {
		return nil, &BoundingBoxError{Kind: InvalidTopBottom, Top: top, Bottom: bottom}
	}
	return &Rectangle{left: left, top: top, right: right, bottom: bottom, category: category}, nil
}

func (r *Rectangle) Left() float64     { return r.left }
func (r *Rectangle) Top() float64      { return r.top }
func (r *Rectangle) Right() float64    { return r.right }
func (r *Rectangle) Bottom() float64   { return r.bottom }
func (r *Rectangle) Category() string  { return r.category }
func (r *Rectangle) SetLeft(v float64)   { r.left = v }
func (r *Rectangle) SetTop(v float64)    { r.top = v }
func (r *Rectangle) SetRight(v float64)  { r.right = v }
func (r *Rectangle) SetBottom(v float64) { r.bottom = v }

// Area returns (right-left)*(bottom-top). It is 0 iff the rectangle is
// degenerate in at least one axis.
func (r *Rectangle) Area() float64 {
	return (r.right - r.left) * (r.bottom - r.top)
}

// Center returns the rectangle's midpoint. This is the spec-normative
// fix of a half-width bug in the original implementation (spec.md §9,
// DESIGN.md "Open Question resolutions" #2): callers downstream depend
// on this being the true midpoint, not 0.5*(right-left).
func (r *Rectangle) Center() Point {
	return Point{
		X: 0.5 * (r.left + r.right),
		Y: 0.5 * (r.top + r.bottom),
	}
}

// AsXYXY returns the four edges in (left, top, right, bottom) order.
func (r *Rectangle) AsXYXY() (float64, float64, float64, float64) {
	return r.left, r.top, r.right, r.bottom
}

// Intersection returns the intersection rectangle of a and b's bounding
// boxes. If the max/min construction would violate left<=right or
// top<=bottom (i.e. the boxes don't overlap or only touch along an
// edge/corner), the intersection area is 0 — represented here by a
// zero-width or zero-height rectangle rather than an error, matching
// spec.md §4.2's "intersection area is 0" rule.
func Intersection(a, b BoxGeometry) (left, top, right, bottom float64) {
	left = max(a.Left(), b.Left())
	top = max(a.Top(), b.Top())
	right = min(a.Right(), b.Right())
	bottom = min(a.Bottom(), b.Bottom())
	if right < left {
		right = left
	}
	if bottom < top {
		bottom = top
	}
	return left, top, right, bottom
}

// IntersectionArea returns the area of Intersection(a, b).
func IntersectionArea(a, b BoxGeometry) float64 {
	left, top, right, bottom := Intersection(a, b)
	return (right - left) * (bottom - top)
}

// Union returns the area of the union of a and b: the sum of their
// areas minus IntersectionArea(a, b).
func Union(a, b BoxGeometry) float64 {
	return a.Area() + b.Area() - IntersectionArea(a, b)
}

// IoU returns the intersection-over-union of a and b. It panics with
// ErrDegenerateUnion if both rectangles have zero area, since the ratio
// is undefined and spec.md classifies this as an unrecoverable
// programmer error, not a typed failure.
func IoU(a, b BoxGeometry) float64 {
	inter := IntersectionArea(a, b)
	union := a.Area() + b.Area() - inter
	if union == 0 {
		panic(ErrDegenerateUnion)
	}
	return inter / union
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
