package registration

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"

	"github.com/periopdigitize/chartextract/internal/bgzf"
	"github.com/periopdigitize/chartextract/internal/matx"
)

// DebugSink receives a snapshot of the transformed source points at
// each CPD iteration, for offline visualization. Implementations are
// responsible for framing and durability; CPD only calls Snapshot in
// iteration order.
type DebugSink interface {
	Snapshot(iteration int, transformed *matx.Matrix) error
}

// BgzfSnappySink is a DebugSink that frames each snapshot as a
// snappy-compressed line, length-prefixed, and appends it to a
// bgzf.Writer. This keeps debug-mode memory bounded by one block's
// worth of compressed snapshots rather than the full iteration count,
// the "quadratic memory with iteration count" failure mode the
// original history-as-string-slice design invites.
type BgzfSnappySink struct {
	writer *bgzf.Writer
}

// NewBgzfSnappySink wraps w in a bgzf.Writer at the given compression
// level and returns a sink ready for use.
func NewBgzfSnappySink(w io.Writer, level int) (*BgzfSnappySink, error) {
	bw, err := bgzf.NewWriter(w, level)
	if err != nil {
		return nil, fmt.Errorf("registration: opening debug sink: %w", err)
	}
	return &BgzfSnappySink{writer: bw}, nil
}

// Snapshot renders transformed as the same JSON-ish point list the
// original CPD debug history used, snappy-compresses it, and appends
// a uint32-length-prefixed frame to the underlying bgzf stream.
func (s *BgzfSnappySink) Snapshot(iteration int, transformed *matx.Matrix) error {
	line := snapshotLine(iteration, transformed)
	compressed := snappy.Encode(nil, []byte(line))

	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(compressed)))
	if _, err := s.writer.Write(lenPrefix[:]); err != nil {
		return err
	}
	_, err := s.writer.Write(compressed)
	return err
}

// Close flushes and closes the underlying bgzf stream.
func (s *BgzfSnappySink) Close() error {
	return s.writer.Close()
}

func snapshotLine(iteration int, transformed *matx.Matrix) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d: [", iteration)
	for i := 0; i < transformed.Rows(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "{\"x\": %v, \"y\": %v}", transformed.At(i, 0), transformed.At(i, 1))
	}
	b.WriteString("]")
	return b.String()
}
