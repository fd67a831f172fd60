package bgzf

import (
	"bytes"
	"compress/gzip"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	for _, length := range []int{0, 1, 100, 65279, 65280, 65281, 500000} {
		input := make([]byte, length)
		n, err := rand.Read(input)
		require.NoError(t, err)
		assert.Equal(t, length, n)

		var buf bytes.Buffer
		w, err := NewWriter(&buf, 1)
		require.NoError(t, err)
		n, err = w.Write(input)
		require.NoError(t, err)
		assert.Equal(t, length, n)
		require.NoError(t, w.Close())

		r, err := gzip.NewReader(&buf)
		require.NoError(t, err)
		actual, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, input, actual)
	}
}

func TestVOffset(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriterSize(&buf, 1, 5)
	require.NoError(t, err)

	_, err = w.Write([]byte("ABCD"))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), w.VOffset())

	_, err = w.Write([]byte("E"))
	require.NoError(t, err)
	voffset1 := w.VOffset()
	assert.Equal(t, uint64(0), voffset1&uint64(0xffff))
	assert.NotEqual(t, uint64(0), voffset1>>16)

	_, err = w.Write([]byte("F"))
	require.NoError(t, err)
	voffset2 := w.VOffset()
	assert.Equal(t, uint64(1), voffset2&uint64(0xffff))
	assert.Equal(t, voffset1>>16, voffset2>>16)
}

func TestNewWriterSizeRejectsOversizedBlock(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriterSize(&buf, 1, MaxUncompressedBlockSize+1)
	assert.Error(t, err)
}
