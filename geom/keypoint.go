package geom

// Keypointed is implemented by annotations that carry an extra point
// beyond their bounding box (currently just KeypointRectangle). Tile
// rebasing uses it to shift an annotation's keypoint alongside its box.
type Keypointed interface {
	Keypoint() Point
	SetKeypoint(Point)
}

var (
	_ Keypointed = (*KeypointRectangle)(nil)
	_ BoxGeometry = (*KeypointRectangle)(nil)
	_ BoxGeometry = (*Rectangle)(nil)
)
