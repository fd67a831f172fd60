package nms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/periopdigitize/chartextract/geom"
)

func rect(t *testing.T, left, top, right, bottom float64, category string) *geom.Rectangle {
	t.Helper()
	r, err := geom.NewRectangle(left, top, right, bottom, category)
	require.NoError(t, err)
	return r
}

func TestSuppressStandardScenario(t *testing.T) {
	a := geom.NewDetection[*geom.Rectangle](rect(t, 0, 0, 4, 4, "field"), 0.6)
	b := geom.NewDetection[*geom.Rectangle](rect(t, 0, 0, 5, 5, "field"), 0.55)
	c := geom.NewDetection[*geom.Rectangle](rect(t, 6, 6, 10, 10, "field"), 0.75)

	survivors := Suppress([]geom.Detection[*geom.Rectangle]{a, b, c}, 0.5)

	require.Len(t, survivors, 2)
	assert.Equal(t, 0.75, survivors[0].Confidence)
	assert.Equal(t, 0.6, survivors[1].Confidence)
}

func TestSuppressDifferentCategoriesBothRetained(t *testing.T) {
	a := geom.NewDetection[*geom.Rectangle](rect(t, 0, 0, 10, 10, "checkbox"), 0.9)
	b := geom.NewDetection[*geom.Rectangle](rect(t, 1, 1, 9, 9, "field"), 0.5)

	survivors := Suppress([]geom.Detection[*geom.Rectangle]{a, b}, 0.1)
	assert.Len(t, survivors, 2)
}

func TestSuppressIdempotent(t *testing.T) {
	a := geom.NewDetection[*geom.Rectangle](rect(t, 0, 0, 4, 4, "field"), 0.6)
	b := geom.NewDetection[*geom.Rectangle](rect(t, 0, 0, 5, 5, "field"), 0.55)
	c := geom.NewDetection[*geom.Rectangle](rect(t, 6, 6, 10, 10, "field"), 0.75)

	once := Suppress([]geom.Detection[*geom.Rectangle]{a, b, c}, 0.5)
	twice := Suppress(once, 0.5)
	assert.Equal(t, once, twice)
}

func TestSuppressCategoryPurity(t *testing.T) {
	a := geom.NewDetection[*geom.Rectangle](rect(t, 0, 0, 4, 4, "a"), 0.6)
	b := geom.NewDetection[*geom.Rectangle](rect(t, 0, 0, 4, 4, "b"), 0.7)
	c := geom.NewDetection[*geom.Rectangle](rect(t, 0, 0, 4, 4, "c"), 0.5)

	survivors := Suppress([]geom.Detection[*geom.Rectangle]{a, b, c}, 0.1)
	assert.Len(t, survivors, 3)
}

func TestSuppressPreservesConfidenceOrder(t *testing.T) {
	a := geom.NewDetection[*geom.Rectangle](rect(t, 0, 0, 1, 1, "x"), 0.2)
	b := geom.NewDetection[*geom.Rectangle](rect(t, 10, 10, 11, 11, "x"), 0.9)
	c := geom.NewDetection[*geom.Rectangle](rect(t, 20, 20, 21, 21, "x"), 0.5)

	survivors := Suppress([]geom.Detection[*geom.Rectangle]{a, b, c}, 0.5)
	require.Len(t, survivors, 3)
	assert.Equal(t, 0.9, survivors[0].Confidence)
	assert.Equal(t, 0.5, survivors[1].Confidence)
	assert.Equal(t, 0.2, survivors[2].Confidence)
}
