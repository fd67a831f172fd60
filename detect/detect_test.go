package detect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/periopdigitize/chartextract/geom"
	"github.com/periopdigitize/chartextract/tiling"
)

func mustRect(t *testing.T, left, top, right, bottom float64, category string) *geom.Rectangle {
	t.Helper()
	r, err := geom.NewRectangle(left, top, right, bottom, category)
	require.NoError(t, err)
	return r
}

func TestOrchestrateRebasesAndMerges(t *testing.T) {
	overlap, err := tiling.NewOverlapRatio(1, 2)
	require.NoError(t, err)

	detector := NewStaticDetector[*geom.Rectangle]()
	detector.Register(0, 0, []geom.Detection[*geom.Rectangle]{
		geom.NewDetection[*geom.Rectangle](mustRect(t, 1, 1, 3, 3, "field"), 0.9),
	})
	detector.Register(0, 1, []geom.Detection[*geom.Rectangle]{
		geom.NewDetection[*geom.Rectangle](mustRect(t, 1, 1, 3, 3, "field"), 0.7),
	})

	img := tiling.NewImage(3, 100, 200)
	results, err := Orchestrate[*geom.Rectangle](detector, img, 100, overlap, 0.5, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	left, top, right, bottom := results[0].Annotation.AsXYXY()
	assert.Equal(t, [4]float64{1, 1, 3, 3}, [4]float64{left, top, right, bottom})

	left, top, right, bottom = results[1].Annotation.AsXYXY()
	assert.Equal(t, [4]float64{51, 1, 53, 3}, [4]float64{left, top, right, bottom})
}

func TestOrchestratePropagatesTilingError(t *testing.T) {
	overlap, err := tiling.NewOverlapRatio(1, 2)
	require.NoError(t, err)
	detector := NewStaticDetector[*geom.Rectangle]()
	img := tiling.NewImage(3, 68, 68)

	_, err = Orchestrate[*geom.Rectangle](detector, img, 17, overlap, 0.5, 0.5)
	require.Error(t, err)
	var gridErr *tiling.TileGridError
	require.ErrorAs(t, err, &gridErr)
}

type errorDetector struct{}

func (errorDetector) Infer(tiling.View, float64) ([]geom.Detection[*geom.Rectangle], error) {
	return nil, errors.New("inference runtime unavailable")
}

func TestOrchestrateDetectorErrorIsFatal(t *testing.T) {
	overlap, err := tiling.NewOverlapRatio(1, 2)
	require.NoError(t, err)
	img := tiling.NewImage(3, 100, 100)

	_, err = Orchestrate[*geom.Rectangle](errorDetector{}, img, 100, overlap, 0.5, 0.5)
	require.Error(t, err)
}
