// Package bgzf implements a block-gzipped, randomly-seekable sink: a
// sequence of independent gzip members, each holding at most
// uncompressedBlockSize bytes of uncompressed payload, concatenated
// together and terminated by an empty gzip member.
//
// It is adapted from a BAM/BCL block-compression writer; this module
// repurposes it for one consumer that has nothing to do with genomics:
// the registration package's CPD debug-history stream (one record per
// EM iteration). That stream appends small, self-describing records
// over time without the whole artifact staying resident in memory,
// which is exactly what virtual-offset addressed BGZF blocks give you.
// The digitized chart JSON is not written through this package.
package bgzf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"
)

const (
	// DefaultUncompressedBlockSize is the block size used by sambamba,
	// biogo, and this package.
	DefaultUncompressedBlockSize = 0x0ff00

	// MaxUncompressedBlockSize is the largest legal block size.
	MaxUncompressedBlockSize = 0x10000

	// compressedBlockSize is the maximum size of one compressed block.
	compressedBlockSize = 0x10000
)

var (
	// bgzfExtra is the gzip Extra subfield BGZF requires: subfield id
	// 'B','C', length 2, followed by the 2-byte BSIZE placeholder.
	bgzfExtra       = [...]byte{66, 67, 2, 0, 0, 0}
	bgzfExtraPrefix = [...]byte{66, 67, 2, 0}

	// terminator is the empty final block every BGZF stream ends with.
	terminator = []byte{
		0x1f, 0x8b, 0x08, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0x06, 0x00, 0x42, 0x43,
		0x02, 0x00, 0x1b, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
)

// Writer compresses a byte stream into BGZF blocks. The teacher's
// version dispatched between a cgo libdeflate/zlibng factory and a
// plain one; this version only ever uses the pure-Go flate writer so
// the module never needs cgo.
type Writer struct {
	level            int
	uncompressedSize int
	w                io.Writer
	original         bytes.Buffer
	compressed       bytes.Buffer
	flateWriter      *flate.Writer
	coffset          uint64 // file position of the start of the current block
}

// NewWriter returns a Writer with the default block size.
func NewWriter(w io.Writer, level int) (*Writer, error) {
	return NewWriterSize(w, level, DefaultUncompressedBlockSize)
}

// NewWriterSize returns a Writer with an explicit uncompressed block size.
func NewWriterSize(w io.Writer, level, uncompressedSize int) (*Writer, error) {
	if uncompressedSize <= 0 || uncompressedSize > MaxUncompressedBlockSize {
		return nil, fmt.Errorf("bgzf: invalid uncompressed block size %d", uncompressedSize)
	}
	return &Writer{
		level:            level,
		uncompressedSize: uncompressedSize,
		w:                w,
	}, nil
}

// Write appends buf to the payload, flushing complete blocks as they fill.
func (w *Writer) Write(buf []byte) (int, error) {
	for i := 0; i < len(buf); {
		end := len(buf)
		limit := i + w.uncompressedSize - w.original.Len()
		if limit < end {
			end = limit
		}
		n, _ := w.original.Write(buf[i:end])
		i += n
		if err := w.tryCompress(false); err != nil {
			return i, err
		}
	}
	return len(buf), nil
}

// CloseWithoutTerminator flushes any partial final block without
// appending the BGZF terminator, so more blocks (e.g. from a sharded
// writer) can still be appended downstream.
func (w *Writer) CloseWithoutTerminator() error {
	return w.tryCompress(true)
}

// Close flushes the final block and appends the BGZF terminator.
func (w *Writer) Close() error {
	if err := w.CloseWithoutTerminator(); err != nil {
		return err
	}
	_, err := w.w.Write(terminator)
	return err
}

func (w *Writer) tryCompress(flushRemainder bool) error {
	for w.original.Len() >= w.uncompressedSize || (flushRemainder && w.original.Len() > 0) {
		w.compressed.Reset()
		if w.flateWriter == nil {
			fw, err := flate.NewWriter(&w.compressed, w.level)
			if err != nil {
				return err
			}
			w.flateWriter = fw
		} else {
			w.flateWriter.Reset(&w.compressed)
		}

		chunk := w.original.Next(w.uncompressedSize)
		if len(chunk) > 0 {
			if _, err := w.flateWriter.Write(chunk); err != nil {
				return err
			}
		}
		if err := w.flateWriter.Close(); err != nil {
			return err
		}

		member := wrapGzipMember(w.compressed.Bytes(), chunk)
		if len(member) > compressedBlockSize {
			return fmt.Errorf("bgzf: compressed block too big: %d > %d", len(member), compressedBlockSize)
		}
		n, err := w.w.Write(member)
		if err != nil {
			return err
		}
		w.coffset += uint64(n)
	}
	return nil
}

// VOffset returns the BGZF virtual offset of the next byte to be written:
// the high 48 bits are the compressed-block start, the low 16 bits are
// the offset within the uncompressed block once it is decompressed.
func (w *Writer) VOffset() uint64 {
	return w.coffset<<16 | uint64(w.original.Len())
}

// wrapGzipMember builds a complete gzip member around a raw DEFLATE
// stream, with the BGZF Extra subfield carrying the compressed size and
// a standard CRC32/ISIZE trailer over the uncompressed chunk.
func wrapGzipMember(deflated []byte, uncompressed []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{
		0x1f, 0x8b, // magic
		0x08,       // CM = deflate
		0x04,       // FLG = FEXTRA
		0, 0, 0, 0, // MTIME (unset)
		0,    // XFL
		0xff, // OS = unknown
		6, 0, // XLEN = 6
	})
	extra := bgzfExtra
	buf.Write(extra[:])
	buf.Write(deflated)

	var trailer [8]byte
	binary.LittleEndian.PutUint32(trailer[0:4], crc32.ChecksumIEEE(uncompressed))
	binary.LittleEndian.PutUint32(trailer[4:8], uint32(len(uncompressed)))
	buf.Write(trailer[:])

	b := buf.Bytes()
	bsize := len(b) - 1 // BSIZE is total member length - 1, per the BGZF spec
	const extraOffset = 12
	if !bytes.Equal(b[extraOffset:extraOffset+len(bgzfExtraPrefix)], bgzfExtraPrefix[:]) {
		panic("bgzf: could not find extra field prefix while wrapping member")
	}
	b[extraOffset+4] = byte(bsize)
	b[extraOffset+5] = byte(bsize >> 8)
	return b
}
