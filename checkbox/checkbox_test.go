package checkbox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/periopdigitize/chartextract/geom"
	"github.com/periopdigitize/chartextract/match"
)

type staticClassifier struct {
	checked map[string]bool
}

func (c staticClassifier) IsChecked(d geom.Detection[*geom.Rectangle]) (bool, error) {
	return c.checked[d.Category()], nil
}

func rect(t *testing.T, left, top, right, bottom float64, category string) *geom.Rectangle {
	t.Helper()
	r, err := geom.NewRectangle(left, top, right, bottom, category)
	require.NoError(t, err)
	return r
}

func TestAssignRoutesToNearestCentroid(t *testing.T) {
	centroids := []match.Centroid{
		{Name: "npo_status", Point: geom.Point{X: 0, Y: 0}},
		{Name: "allergy_none", Point: geom.Point{X: 10, Y: 10}},
	}
	detections := []geom.Detection[*geom.Rectangle]{
		geom.NewDetection[*geom.Rectangle](rect(t, -0.1, -0.1, 0.1, 0.1, "npo_status"), 0.9),
		geom.NewDetection[*geom.Rectangle](rect(t, 9.9, 9.9, 10.1, 10.1, "allergy_none"), 0.9),
	}
	classifier := staticClassifier{checked: map[string]bool{"npo_status": true, "allergy_none": false}}

	statuses, err := Assign[*geom.Rectangle](detections, centroids, classifier)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"npo_status": true, "allergy_none": false}, statuses)
}

func TestAssignLastWriteWinsOnSharedCentroid(t *testing.T) {
	centroids := []match.Centroid{{Name: "npo_status", Point: geom.Point{X: 0, Y: 0}}}
	detections := []geom.Detection[*geom.Rectangle]{
		geom.NewDetection[*geom.Rectangle](rect(t, -0.1, -0.1, 0.1, 0.1, "npo_status"), 0.9),
		geom.NewDetection[*geom.Rectangle](rect(t, -0.05, -0.05, 0.05, 0.05, "npo_status_late"), 0.9),
	}
	classifier := staticClassifier{checked: map[string]bool{"npo_status": false, "npo_status_late": true}}

	statuses, err := Assign[*geom.Rectangle](detections, centroids, classifier)
	require.NoError(t, err)
	assert.Len(t, statuses, 1)
	assert.Equal(t, map[string]bool{"npo_status": true}, statuses)
}

type erroringClassifier struct{}

func (erroringClassifier) IsChecked(geom.Detection[*geom.Rectangle]) (bool, error) {
	return false, errors.New("classifier unavailable")
}

func TestAssignPropagatesClassifierError(t *testing.T) {
	centroids := []match.Centroid{{Name: "npo_status", Point: geom.Point{X: 0, Y: 0}}}
	detections := []geom.Detection[*geom.Rectangle]{
		geom.NewDetection[*geom.Rectangle](rect(t, -0.1, -0.1, 0.1, 0.1, "npo_status"), 0.9),
	}

	_, err := Assign[*geom.Rectangle](detections, centroids, erroringClassifier{})
	assert.Error(t, err)
}

func TestAssignNoCentroidsYieldsEmptyResult(t *testing.T) {
	detections := []geom.Detection[*geom.Rectangle]{
		geom.NewDetection[*geom.Rectangle](rect(t, 0, 0, 1, 1, "npo_status"), 0.9),
	}
	statuses, err := Assign[*geom.Rectangle](detections, nil, staticClassifier{})
	require.NoError(t, err)
	assert.Empty(t, statuses)
}
