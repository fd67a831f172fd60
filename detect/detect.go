// Package detect runs an object detector across a tile grid and
// reassembles its output into full-image coordinates, deduplicating
// overlapping detections at tile seams with category-aware NMS.
package detect

import (
	"github.com/periopdigitize/chartextract/geom"
	"github.com/periopdigitize/chartextract/nms"
	"github.com/periopdigitize/chartextract/tiling"
)

// Detector is the one blocking capability the core depends on: given a
// tile view and a confidence threshold, produce detections in the
// view's own (tile-local) coordinate frame. Implementations own
// whatever inference runtime they wrap (ONNX session, remote call);
// this package only orchestrates tiling, rebasing, and merging.
type Detector[A geom.BoxGeometry] interface {
	Infer(view tiling.View, confidence float64) ([]geom.Detection[A], error)
}

// Tile is one grid cell's detections, still in tile-local coordinates,
// paired with the offset needed to rebase them. RunTile does not
// produce a Tile: it returns detections already rebased into
// full-image coordinates. Callers that want to parallelize inference
// (per spec.md §5, "callers wishing to parallelize tile inference may
// do so externally") can call RunTile concurrently across views and
// pass the collected slices to Merge.
type Tile[A geom.BoxGeometry] struct {
	Detections []geom.Detection[A]
	DX, DY     float64
}

// RunTile runs the detector on a single view and rebases its
// detections into full-image coordinates by adding the view's pixel
// offset to every edge (and, for keypointed annotations, the keypoint).
func RunTile[A geom.BoxGeometry](detector Detector[A], view tiling.View, confidence float64) ([]geom.Detection[A], error) {
	detections, err := detector.Infer(view, confidence)
	if err != nil {
		return nil, err
	}
	dx, dy := float64(view.Left), float64(view.Top)
	for i := range detections {
		detections[i].Rebase(dx, dy)
	}
	return detections, nil
}

// Merge concatenates per-tile detections and applies category-aware
// NMS, per spec.md §4.3 steps 3-4.
func Merge[A geom.BoxGeometry](tiles [][]geom.Detection[A], threshold nms.Threshold) []geom.Detection[A] {
	var all []geom.Detection[A]
	for _, t := range tiles {
		all = append(all, t...)
	}
	return nms.Suppress(all, threshold)
}

// Orchestrate runs the full tile-and-predict pipeline synchronously,
// in row-major tile order (spec.md §4.3): build the grid, infer and
// rebase every tile in sequence, then merge with NMS. Tiling errors
// propagate unchanged; a detector error aborts the whole call.
func Orchestrate[A geom.BoxGeometry](
	detector Detector[A],
	img *tiling.Image,
	tileSize int,
	overlap tiling.OverlapRatio,
	confidence float64,
	nmsThreshold nms.Threshold,
) ([]geom.Detection[A], error) {
	grid, err := tiling.NewTileGrid(img.Width, img.Height, tileSize, overlap)
	if err != nil {
		return nil, err
	}

	views := grid.Views(img)
	var perTile [][]geom.Detection[A]
	for _, row := range views {
		for _, view := range row {
			detections, err := RunTile(detector, view, confidence)
			if err != nil {
				return nil, err
			}
			perTile = append(perTile, detections)
		}
	}
	return Merge(perTile, nmsThreshold), nil
}
