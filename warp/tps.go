// Package warp implements the Thin-Plate-Spline (TPS) transform used
// to carry bounding boxes and keypoints from the photographed chart's
// frame into the canonical template frame, once CPD has produced
// source-to-destination correspondences.
package warp

import (
	"fmt"
	"math"

	"github.com/periopdigitize/chartextract/geom"
	"github.com/periopdigitize/chartextract/internal/matx"
)

// Model is a fitted TPS transform: K correspondences between source
// and destination points, and the solved coefficient matrix W. It is
// built once and is read-only afterward for point transport.
type Model struct {
	source      []geom.Point
	destination []geom.Point
	w           *matx.Matrix // (K+3) x 2
}

// New fits a TPS model from parallel source/destination point slices.
// Returns an error if fewer than 3 correspondences are given, if the
// slices have mismatched length, or if the TPS system is singular
// (matx.Solve's singularity error propagates, e.g. for collinear
// correspondences).
func New(source, destination []geom.Point) (*Model, error) {
	if len(source) != len(destination) {
		return nil, fmt.Errorf("warp: source and destination must have equal length, got %d and %d", len(source), len(destination))
	}
	if len(source) < 3 {
		return nil, fmt.Errorf("warp: TPS requires at least 3 correspondences, got %d", len(source))
	}

	l := buildLMatrix(source, destination)
	b := buildBMatrix(destination)
	w, err := matx.Solve(l, b)
	if err != nil {
		return nil, fmt.Errorf("warp: solving TPS system: %w", err)
	}

	return &Model{source: source, destination: destination, w: w}, nil
}

// kernel is phi(r) = r^2 * ln(r) for r > 0, and phi(0) = 0.
func kernel(r float64) float64 {
	if r == 0 {
		return 0
	}
	return r * r * math.Log(r)
}

func distance(a, b geom.Point) float64 {
	return a.Distance(b)
}

// buildLMatrix assembles L = [[U, P], [P^T, O]], (K+3) x (K+3). U is
// the source-row/destination-column cross term, U[i][j] =
// phi(|source[i] - destination[j]|) (not source-source): this is the
// basis TransformPoint's kappa(p) vector is evaluated against, and the
// two must agree or the interpolation identity (every source point
// must transform to its paired destination point) breaks. P (and its
// transpose) stay built from source points only.
func buildLMatrix(source, destination []geom.Point) *matx.Matrix {
	k := len(source)
	l := matx.New(k+3, k+3)

	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			l.Set(i, j, kernel(distance(source[i], destination[j])))
		}
		l.Set(i, k, 1)
		l.Set(i, k+1, source[i].X)
		l.Set(i, k+2, source[i].Y)

		l.Set(k, i, 1)
		l.Set(k+1, i, source[i].X)
		l.Set(k+2, i, source[i].Y)
	}
	return l
}

// buildBMatrix stacks the destination points atop three zero rows.
func buildBMatrix(destination []geom.Point) *matx.Matrix {
	k := len(destination)
	b := matx.New(k+3, 2)
	for i, p := range destination {
		b.Set(i, 0, p.X)
		b.Set(i, 1, p.Y)
	}
	return b
}

// TransformPoint maps p from the source frame to the destination
// frame. Per spec.md §4.6's preserved open question, the kernel vector
// is built against destination points, not source points — the basis
// used here must match the basis used to build L when the model was
// fit elsewhere, or the interpolation identity breaks; see New.
func (m *Model) TransformPoint(p geom.Point) geom.Point {
	k := len(m.destination)
	kappa := matx.New(1, k+3)
	for i, d := range m.destination {
		kappa.Set(0, i, kernel(distance(d, p)))
	}
	kappa.Set(0, k, 1)
	kappa.Set(0, k+1, p.X)
	kappa.Set(0, k+2, p.Y)

	out := kappa.Mul(m.w)
	return geom.Point{X: out.At(0, 0), Y: out.At(0, 1)}
}

// TransformRectangle transports all four corners of r and returns the
// axis-aligned bounding box of the transported corners; category
// passes through unchanged.
func (m *Model) TransformRectangle(r *geom.Rectangle) (*geom.Rectangle, error) {
	left, top, right, bottom := r.AsXYXY()
	corners := [4]geom.Point{
		{X: left, Y: top}, {X: right, Y: top},
		{X: right, Y: bottom}, {X: left, Y: bottom},
	}
	for i := range corners {
		corners[i] = m.TransformPoint(corners[i])
	}
	minX, minY, maxX, maxY := boundingBox(corners[:])
	return geom.NewRectangle(minX, minY, maxX, maxY, r.Category())
}

// TransformKeypointRectangle transports the rectangle's corners and
// its keypoint.
func (m *Model) TransformKeypointRectangle(r *geom.KeypointRectangle) (*geom.KeypointRectangle, error) {
	left, top, right, bottom := r.AsXYXY()
	corners := [4]geom.Point{
		{X: left, Y: top}, {X: right, Y: top},
		{X: right, Y: bottom}, {X: left, Y: bottom},
	}
	for i := range corners {
		corners[i] = m.TransformPoint(corners[i])
	}
	minX, minY, maxX, maxY := boundingBox(corners[:])
	keypoint := m.TransformPoint(r.Keypoint())
	return geom.NewKeypointRectangle(minX, minY, maxX, maxY, keypoint.X, keypoint.Y, r.Category())
}

func boundingBox(points []geom.Point) (minX, minY, maxX, maxY float64) {
	minX, minY = points[0].X, points[0].Y
	maxX, maxY = points[0].X, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
