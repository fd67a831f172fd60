package registration

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/periopdigitize/chartextract/internal/matx"
)

func TestBgzfSnappySinkWritesFramedSnapshots(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewBgzfSnappySink(&buf, 6)
	require.NoError(t, err)

	points := matx.NewFromRows([][]float64{{0, 0}, {1, 1}})
	require.NoError(t, sink.Snapshot(0, points))
	require.NoError(t, sink.Snapshot(1, points))
	require.NoError(t, sink.Close())

	require.Greater(t, buf.Len(), 0)
}

func TestRegisterWithDebugHistoryWritesOneSnapshotPerIteration(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewBgzfSnappySink(&buf, 6)
	require.NoError(t, err)

	targets := matx.NewFromRows([][]float64{{0, 0}, {1, 0}, {0.5, 0.5}})
	sources := matx.NewFromRows([][]float64{{0.2, 0.2}, {1.2, 0.2}, {0.7, 0.7}})
	s := New(targets, sources, 0.01, 2, WithMaxIterations(5), WithDebugHistory(sink))

	iterations, err := s.Register()
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	require.Greater(t, buf.Len(), 0)

	r, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	stream, err := io.ReadAll(r)
	require.NoError(t, err)
	frames := 0
	for len(stream) > 0 {
		require.GreaterOrEqual(t, len(stream), 4)
		n := int(binary.LittleEndian.Uint32(stream[:4]))
		require.GreaterOrEqual(t, len(stream), 4+n)
		stream = stream[4+n:]
		frames++
	}
	assert.Equal(t, iterations, frames)
}
