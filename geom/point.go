// Package geom provides the axis-aligned geometry primitives the rest
// of the pipeline builds on: points, rectangles, keypoint-rectangles,
// and detections (an annotation plus a confidence score).
package geom

import (
	"math"

	farm "github.com/dgryski/go-farm"
)

// Point is an immutable 2-D point, x increasing rightward and y
// increasing downward, origin top-left.
type Point struct {
	X, Y float64
}

// normalizeZero maps −0 to +0 so that equality and hashing agree on
// the two IEEE-754 zero representations.
func normalizeZero(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}

// Equal reports whether p and q denote the same point, treating +0 and
// −0 as equal.
func (p Point) Equal(q Point) bool {
	return normalizeZero(p.X) == normalizeZero(q.X) && normalizeZero(p.Y) == normalizeZero(q.Y)
}

// Hash returns a deterministic hash of p, suitable for use as a map key
// surrogate. It hashes the raw bit patterns of the normalized
// coordinates, so callers must not mutate a Point after using its hash
// to index a set or map.
func (p Point) Hash() uint64 {
	var buf [16]byte
	putBits(buf[0:8], normalizeZero(p.X))
	putBits(buf[8:16], normalizeZero(p.Y))
	return farm.Hash64(buf[:])
}

func putBits(dst []byte, f float64) {
	bits := math.Float64bits(f)
	for i := 0; i < 8; i++ {
		dst[i] = byte(bits >> (8 * i))
	}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}
