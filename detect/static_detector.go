package detect

import (
	"github.com/periopdigitize/chartextract/geom"
	"github.com/periopdigitize/chartextract/tiling"
)

// StaticDetector is a deterministic Detector stand-in for tests: it
// returns a fixed set of detections per grid coordinate, ignoring the
// pixel contents of the view entirely. Detections not registered for a
// given (row, col) yield an empty result, never an error.
type StaticDetector[A geom.BoxGeometry] struct {
	ByTile map[[2]int][]geom.Detection[A]
}

// NewStaticDetector builds an empty StaticDetector ready for registration.
func NewStaticDetector[A geom.BoxGeometry]() *StaticDetector[A] {
	return &StaticDetector[A]{ByTile: make(map[[2]int][]geom.Detection[A])}
}

// Register sets the detections StaticDetector returns for tile (row, col).
func (d *StaticDetector[A]) Register(row, col int, detections []geom.Detection[A]) {
	d.ByTile[[2]int{row, col}] = detections
}

func (d *StaticDetector[A]) Infer(view tiling.View, confidence float64) ([]geom.Detection[A], error) {
	detections := d.ByTile[[2]int{view.Row, view.Col}]
	out := make([]geom.Detection[A], 0, len(detections))
	for _, det := range detections {
		if det.Confidence >= confidence {
			out = append(out, det)
		}
	}
	return out, nil
}
