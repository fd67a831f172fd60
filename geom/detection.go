package geom

// Detection pairs an annotation (any BoxGeometry — Rectangle or
// KeypointRectangle) with the detector's confidence for it.
type Detection[A BoxGeometry] struct {
	Annotation A
	Confidence float64
}

// NewDetection constructs a Detection. Confidence is not validated here
// (the [0,1] invariant is the detector's contract, §6); this stays a
// total constructor so detector output can be wrapped without a second
// failure mode layered on top of the annotation's own validation.
func NewDetection[A BoxGeometry](annotation A, confidence float64) Detection[A] {
	return Detection[A]{Annotation: annotation, Confidence: confidence}
}

// Center is a convenience forwarding to the annotation's center, used
// throughout registration and matching where only the centroid matters.
func (d Detection[A]) Center() Point {
	return d.Annotation.Center()
}

// Category forwards to the annotation's category.
func (d Detection[A]) Category() string {
	return d.Annotation.Category()
}

// Rebase shifts the annotation's coordinates by (dx, dy), mutating it
// in place through the BoxGeometry mutator methods. This is the whole
// contract those mutators exist for (spec.md §4.3 step 2): tile
// rebasing adds the tile's pixel offset to every returned detection.
func (d Detection[A]) Rebase(dx, dy float64) {
	d.Annotation.SetLeft(d.Annotation.Left() + dx)
	d.Annotation.SetRight(d.Annotation.Right() + dx)
	d.Annotation.SetTop(d.Annotation.Top() + dy)
	d.Annotation.SetBottom(d.Annotation.Bottom() + dy)
	if kp, ok := any(d.Annotation).(Keypointed); ok {
		k := kp.Keypoint()
		kp.SetKeypoint(Point{X: k.X + dx, Y: k.Y + dy})
	}
}
