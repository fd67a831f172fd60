package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectionRebaseRectangle(t *testing.T) {
	r, err := NewRectangle(0, 0, 2, 2, "needle")
	require.NoError(t, err)
	d := NewDetection[*Rectangle](r, 0.9)
	d.Rebase(10, 20)

	left, top, right, bottom := d.Annotation.AsXYXY()
	assert.Equal(t, [4]float64{10, 20, 12, 22}, [4]float64{left, top, right, bottom})
}

func TestDetectionRebaseKeypointRectangle(t *testing.T) {
	kr, err := NewKeypointRectangle(0, 0, 2, 2, 1, 1, "gauge")
	require.NoError(t, err)
	d := NewDetection[*KeypointRectangle](kr, 0.5)
	d.Rebase(5, 5)

	left, top, right, bottom := d.Annotation.AsXYXY()
	assert.Equal(t, [4]float64{5, 5, 7, 7}, [4]float64{left, top, right, bottom})
	assert.Equal(t, Point{X: 6, Y: 6}, d.Annotation.Keypoint())
}
