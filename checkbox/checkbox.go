// Package checkbox implements nearest-centroid routing of checkbox
// detections to named template fields (spec.md §4.7): the core only
// decides *which* field a checkbox detection belongs to; whether the
// box is checked is delegated to an out-of-core classifier capability.
package checkbox

import (
	"github.com/periopdigitize/chartextract/geom"
	"github.com/periopdigitize/chartextract/match"
)

// Classifier decides whether a checkbox detection represents a
// checked box. It is the one collaborator capability this package
// depends on, mirroring detect.Detector's single blocking method.
type Classifier[A geom.BoxGeometry] interface {
	IsChecked(d geom.Detection[A]) (bool, error)
}

// Assign routes each detection to the template centroid nearest its
// center and records the classifier's verdict under that centroid's
// name. When multiple detections route to the same name, the last one
// processed (input order) wins, matching the original routing table's
// insert-overwrite semantics.
func Assign[A geom.BoxGeometry](detections []geom.Detection[A], centroids []match.Centroid, classifier Classifier[A]) (map[string]bool, error) {
	statuses := make(map[string]bool, len(centroids))
	for _, d := range detections {
		name, ok := nearestCentroidName(d.Center(), centroids)
		if !ok {
			continue
		}
		checked, err := classifier.IsChecked(d)
		if err != nil {
			return nil, err
		}
		statuses[name] = checked
	}
	return statuses, nil
}

func nearestCentroidName(p geom.Point, centroids []match.Centroid) (string, bool) {
	if len(centroids) == 0 {
		return "", false
	}
	bestName := centroids[0].Name
	bestDist := p.Distance(centroids[0].Point)
	for _, c := range centroids[1:] {
		if d := p.Distance(c.Point); d < bestDist {
			bestDist = d
			bestName = c.Name
		}
	}
	return bestName, true
}
