package geom

// KeypointRectangle is a Rectangle annotated with a single keypoint,
// used for landmarks where both a bounding box and a precise point
// (e.g. a gauge needle tip) are detected together.
type KeypointRectangle struct {
	Rectangle
	kx, ky float64
}

// NewKeypointRectangle validates the rectangle the same way
// NewRectangle does, then attaches the keypoint.
func NewKeypointRectangle(left, top, right, bottom, kx, ky float64, category string) (*KeypointRectangle, error) {
	r, err := NewRectangle(left, top, right, bottom, category)
	if err != nil {
		return nil, err
	}
	return &KeypointRectangle{Rectangle: *r, kx: kx, ky: ky}, nil
}

// Keypoint returns the annotated point, in the same coordinate frame as
// the rectangle.
func (k *KeypointRectangle) Keypoint() Point {
	return Point{X: k.kx, Y: k.ky}
}

// SetKeypoint overwrites the keypoint, used by tile rebasing.
func (k *KeypointRectangle) SetKeypoint(p Point) {
	k.kx, k.ky = p.X, p.Y
}
