// Package digitize is the top-level driver: it wires tiling, per-tile
// detection, CPD registration, TPS warp, and chart population into the
// one pass spec.md's "chart-schema model" scope note describes
// (grounded on original_source/src/digitization/digitize.rs's
// tile -> detect -> register -> warp -> assign shape). Everything in
// this package is a collaborator of the core (geom/tiling/nms/
// registration/warp/match) packages, never the other way around.
package digitize

import (
	"fmt"

	"github.com/grailbio/base/traverse"

	"github.com/periopdigitize/chartextract/chart"
	"github.com/periopdigitize/chartextract/detect"
	"github.com/periopdigitize/chartextract/geom"
	"github.com/periopdigitize/chartextract/match"
	"github.com/periopdigitize/chartextract/nms"
	"github.com/periopdigitize/chartextract/registration"
	"github.com/periopdigitize/chartextract/tiling"
	"github.com/periopdigitize/chartextract/warp"
)

// TileStageOptions configures one detector stage's tile-and-predict
// run. Concurrency controls how many tiles may be inferred at once;
// 0 or 1 runs strictly sequentially (the core's default, single-
// threaded posture). Concurrency > 1 is the one place spec.md §5
// permits fan-out: "callers wishing to parallelize tile inference may
// do so externally."
type TileStageOptions struct {
	TileSize     int
	Overlap      tiling.OverlapRatio
	Confidence   float64
	NMSThreshold nms.Threshold
	Concurrency  int
}

// RunTileStage runs a detector over img's tile grid, optionally fanning
// tile inference out across Concurrency workers via
// grailbio/base/traverse (the same shape the teacher's bio-pileup uses
// for its -parallelism flag), then merges with NMS exactly as
// detect.Orchestrate does synchronously. NMS itself never runs until
// every tile's detections are collected.
func RunTileStage[A geom.BoxGeometry](detector detect.Detector[A], img *tiling.Image, opts TileStageOptions) ([]geom.Detection[A], error) {
	grid, err := tiling.NewTileGrid(img.Width, img.Height, opts.TileSize, opts.Overlap)
	if err != nil {
		return nil, err
	}
	views := grid.Views(img)

	flat := make([]tiling.View, 0, grid.Rows()*grid.Cols())
	for _, row := range views {
		flat = append(flat, row...)
	}

	perTile := make([][]geom.Detection[A], len(flat))
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	err = traverse.Each(concurrency, func(shard int) error {
		for i := shard; i < len(flat); i += concurrency {
			detections, err := detect.RunTile(detector, flat[i], opts.Confidence)
			if err != nil {
				return fmt.Errorf("digitize: inferring tile (%d,%d): %w", flat[i].Row, flat[i].Col, err)
			}
			perTile[i] = detections
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return detect.Merge(perTile, opts.NMSThreshold), nil
}

// RegisterAndWarp runs filter-and-assign (§4.5) between detections and
// template centroids, then fits a TPS model from the surviving
// correspondences and transports the kept rectangles into the template
// frame. It returns the transported rectangles paired with the names
// the matching stage assigned them.
func RegisterAndWarp(
	detections []geom.Detection[*geom.Rectangle],
	centroids []match.Centroid,
	lambda, beta float64,
	opts ...registration.Option,
) ([]*geom.Rectangle, []string, error) {
	kept, correspondences, err := match.FilterAndAssign(detections, centroids, lambda, beta, opts...)
	if err != nil {
		return nil, nil, err
	}
	if len(correspondences) < 3 {
		return nil, nil, fmt.Errorf("digitize: only %d correspondences survived filtering, TPS needs at least 3", len(correspondences))
	}

	source := make([]geom.Point, len(correspondences))
	destination := make([]geom.Point, len(correspondences))
	for i, c := range correspondences {
		source[i] = c.Source
		destination[i] = c.Destination
	}
	model, err := warp.New(source, destination)
	if err != nil {
		return nil, nil, err
	}

	transported := make([]*geom.Rectangle, len(kept))
	names := make([]string, len(kept))
	for i, d := range kept {
		r, err := model.TransformRectangle(d.Annotation)
		if err != nil {
			return nil, nil, err
		}
		transported[i] = r
		names[i] = correspondences[i].Name
	}
	return transported, names, nil
}

// PopulateFromDetections writes one chart.Field per transported
// rectangle, keyed by its assigned name, storing the rectangle itself
// as the opaque Value — position only, never interpreted here. Kind
// distinguishes which chart section the caller is populating (e.g.
// VitalSign for a landmark stage, Dose for the medication grid).
func PopulateFromDetections(c chart.Chart, rectangles []*geom.Rectangle, names []string, kind chart.Kind) error {
	if len(rectangles) != len(names) {
		return fmt.Errorf("digitize: %d rectangles but %d names", len(rectangles), len(names))
	}
	for i, r := range rectangles {
		c.Set(names[i], kind, r)
	}
	return nil
}

// PopulateCheckboxes writes one Checkbox-kind chart.Field per routed
// status.
func PopulateCheckboxes(c chart.Chart, statuses map[string]bool) {
	for name, checked := range statuses {
		c.Set(name, chart.Checkbox, checked)
	}
}
