// Package centroid loads the canonical template's named centroids: a
// flat JSON mapping of name -> [x, y], per spec.md §6.
package centroid

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/periopdigitize/chartextract/geom"
	"github.com/periopdigitize/chartextract/match"
	"github.com/periopdigitize/chartextract/modelio"
)

// Load reads the centroid JSON at path and returns a name -> point map.
func Load(ctx context.Context, path string) (map[string]geom.Point, error) {
	data, err := modelio.ReadAll(ctx, path)
	if err != nil {
		return nil, errors.E(err, "centroid: loading", path)
	}

	var raw map[string][2]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.E(err, "centroid: parsing", path)
	}

	points := make(map[string]geom.Point, len(raw))
	for name, xy := range raw {
		points[name] = geom.Point{X: xy[0], Y: xy[1]}
	}
	return points, nil
}

// AsSlice converts a loaded centroid map into the ordered slice form
// match.FilterAndAssign and checkbox.Assign consume, sorted by name so
// CPD's row-major point ordering is deterministic across runs.
func AsSlice(points map[string]geom.Point) []match.Centroid {
	names := make([]string, 0, len(points))
	for name := range points {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]match.Centroid, 0, len(names))
	for _, name := range names {
		out = append(out, match.Centroid{Name: name, Point: points[name]})
	}
	return out
}
