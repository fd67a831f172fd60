// Package match implements the filter-and-assign step that bridges
// CPD registration to TPS fitting: it drops detections whose
// CPD-selected template neighbor disagrees on category, and emits the
// surviving correspondences for §4.6's warp fit.
package match

import (
	"fmt"

	"github.com/periopdigitize/chartextract/geom"
	"github.com/periopdigitize/chartextract/internal/matx"
	"github.com/periopdigitize/chartextract/registration"
)

// Centroid is one named point in the canonical template, keyed by the
// field/category name it represents.
type Centroid struct {
	Name  string
	Point geom.Point
}

// Correspondence is a matched (detection centroid, template centroid)
// pair, the unit TPS fitting consumes.
type Correspondence struct {
	Source      geom.Point
	Destination geom.Point
	Name        string
}

// FilterAndAssign runs CPD between the detections' centers (source)
// and the template centroids (target), extracts the greedy matching,
// and keeps only detections matched to a same-category template
// centroid (spec.md §4.5). It returns the surviving detections paired
// index-for-index with their correspondences, in the matching's
// descending-probability order; the input (e.g. confidence-descending)
// order is not kept.
func FilterAndAssign[A geom.BoxGeometry](
	detections []geom.Detection[A],
	centroids []Centroid,
	lambda, beta float64,
	opts ...registration.Option,
) ([]geom.Detection[A], []Correspondence, error) {
	if len(detections) == 0 || len(centroids) == 0 {
		return nil, nil, nil
	}

	source := matx.New(len(detections), 2)
	for i, d := range detections {
		center := d.Center()
		source.Set(i, 0, center.X)
		source.Set(i, 1, center.Y)
	}
	target := matx.New(len(centroids), 2)
	for i, c := range centroids {
		target.Set(i, 0, c.Point.X)
		target.Set(i, 1, c.Point.Y)
	}

	state := registration.New(target, source, lambda, beta, opts...)
	if _, err := state.Register(); err != nil {
		return nil, nil, fmt.Errorf("match: registering detections to template: %w", err)
	}

	matches := registration.ExtractMatching(state.P())

	kept := make([]geom.Detection[A], 0, len(matches))
	correspondences := make([]Correspondence, 0, len(matches))
	for _, m := range matches {
		detection := detections[m.SourceIndex]
		centroid := centroids[m.TargetIndex]
		if detection.Category() != centroid.Name {
			continue
		}
		kept = append(kept, detection)
		correspondences = append(correspondences, Correspondence{
			Source:      detection.Center(),
			Destination: centroid.Point,
			Name:        centroid.Name,
		})
	}
	return kept, correspondences, nil
}
