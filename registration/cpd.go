// Package registration implements Coherent Point Drift (CPD), the
// EM-style non-rigid point-set registration that aligns a detector's
// raw centroids to a canonical template point cloud under partial
// observation and spurious extras.
package registration

import (
	"fmt"
	"math"

	"github.com/periopdigitize/chartextract/internal/matx"
)

// State holds a CPD run: the fixed target/source point sets, the
// tunable kernel parameters, and the mutable fit (W, sigma-squared,
// soft-assignment P). Register mutates a State in place until
// convergence; a converged State is read-only except through its
// accessors.
type State struct {
	target *matx.Matrix // X, N x D
	source *matx.Matrix // Y, M x D

	lambda, beta float64
	w            float64
	tolerance    float64
	maxIter      int

	gaussianKernel *matx.Matrix // G, M x M, depends only on Y and beta

	w2          *matx.Matrix // W, M x D deformation coefficients
	variance    float64
	varianceDelta float64
	p           *matx.Matrix // soft assignment, M x N

	debug   bool
	history DebugSink
}

// Option configures a State at construction. Defaults match spec: w=0,
// tolerance=1e-3, max_iter=100, debug off.
type Option func(*State)

// WithOutlierWeight sets the uniform-outlier mixture weight w. Must be
// in [0, 1); New panics otherwise.
func WithOutlierWeight(w float64) Option { return func(s *State) { s.w = w } }

// WithTolerance sets the variance-delta convergence tolerance.
func WithTolerance(tolerance float64) Option { return func(s *State) { s.tolerance = tolerance } }

// WithMaxIterations bounds the EM loop.
func WithMaxIterations(maxIter int) Option { return func(s *State) { s.maxIter = maxIter } }

// WithDebugHistory enables per-iteration snapshotting of the
// transformed source points through sink. max_iter must be bounded
// when this is set (per spec, to keep the debug stream finite).
func WithDebugHistory(sink DebugSink) Option {
	return func(s *State) {
		s.debug = true
		s.history = sink
	}
}

// New constructs a CPD state from target (N x D) and source (M x D)
// point matrices and the kernel parameters lambda, beta. It panics if
// lambda or beta is non-positive, or if an outlier weight outside
// [0, 1) was supplied via WithOutlierWeight — these are construction
// invariants, not runtime failures.
func New(target, source *matx.Matrix, lambda, beta float64, opts ...Option) *State {
	if lambda <= 0 {
		panic("registration: lambda must be > 0")
	}
	if beta <= 0 {
		panic("registration: beta must be > 0")
	}

	s := &State{
		target:        target,
		source:        source,
		lambda:        lambda,
		beta:          beta,
		w:             0,
		tolerance:     1e-3,
		maxIter:       100,
		w2:            matx.New(source.Rows(), source.Cols()),
		varianceDelta: math.Inf(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.w < 0 || s.w >= 1 {
		panic(fmt.Sprintf("registration: outlier weight %v must be in [0, 1)", s.w))
	}

	s.variance = initialVariance(target, source)
	s.gaussianKernel = gaussianKernel(source, source, beta)
	s.p = matx.New(source.Rows(), target.Rows())
	return s
}

// Variance returns the current sigma-squared.
func (s *State) Variance() float64 { return s.variance }

// VarianceDelta returns the most recent |sigma_new - sigma|.
func (s *State) VarianceDelta() float64 { return s.varianceDelta }

// W returns the current deformation coefficients (M x D).
func (s *State) W() *matx.Matrix { return s.w2 }

// P returns the current soft-assignment matrix (M x N).
func (s *State) P() *matx.Matrix { return s.p }

// TransformedSource returns Y + G*W, the current fit of the source
// points onto the target frame.
func (s *State) TransformedSource() *matx.Matrix {
	return transformPointCloud(s.source, s.gaussianKernel, s.w2)
}

// Register runs the EM loop to convergence: iter >= max_iter or
// variance_delta <= tolerance, whichever comes first. It returns the
// number of iterations performed.
func (s *State) Register() (int, error) {
	transformed := transformPointCloud(s.source, s.gaussianKernel, s.w2)
	iteration := 0
	for iteration < s.maxIter && s.varianceDelta > s.tolerance {
		if s.debug && s.history != nil {
			if err := s.history.Snapshot(iteration, transformed); err != nil {
				return iteration, fmt.Errorf("registration: writing debug snapshot: %w", err)
			}
		}
		s.expectation(transformed)
		var err error
		transformed, err = s.maximization()
		if err != nil {
			return iteration, err
		}
		iteration++
	}
	return iteration, nil
}

// expectation computes P given the current transformed source points
// and variance (spec.md §4.4 E-step, steps 1-4; T is passed in rather
// than recomputed since the caller already has it).
func (s *State) expectation(transformed *matx.Matrix) {
	n := s.target.Rows()
	m := s.source.Rows()
	d := s.target.Cols()

	squared := squaredEuclideanDistance(s.target, transformed) // N x M
	ptilde := matx.New(m, n)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			ptilde.Set(j, i, math.Exp(-squared.At(i, j)/(2*s.variance)))
		}
	}

	c := math.Pow(2*math.Pi*s.variance, float64(d)/2) * (s.w / (1 - s.w)) * (float64(m) / float64(n))

	colSums := ptilde.ColSums()
	for j := 0; j < n; j++ {
		denom := colSums[j]
		if denom == 0 {
			denom = math.SmallestNonzeroFloat64 + c
		} else {
			denom += c
		}
		for i := 0; i < m; i++ {
			s.p.Set(i, j, ptilde.At(i, j)/denom)
		}
	}
}

// maximization solves for W, recomputes the transformed source points,
// and updates the variance (spec.md §4.4 M-step, steps 5-9).
func (s *State) maximization() (*matx.Matrix, error) {
	rowSums := s.p.RowSums()  // p1, length M
	colSums := s.p.ColSums()  // pT, length N
	px := s.p.Mul(s.target)   // PX, M x D

	left := matx.DiagMul(rowSums, s.gaussianKernel)
	identity := matx.Identity(s.source.Rows())
	a := left.Add(identity.Scale(s.lambda * s.variance))
	b := px.Sub(matx.DiagMul(rowSums, s.source))

	w, err := matx.Solve(a, b)
	if err != nil {
		return nil, fmt.Errorf("registration: solving for W: %w", err)
	}
	s.w2 = w

	transformed := transformPointCloud(s.source, s.gaussianKernel, s.w2)
	s.variance, s.varianceDelta = updateVariance(s.target, transformed, rowSums, colSums, px, s.variance, s.tolerance)
	return transformed, nil
}

func initialVariance(target, source *matx.Matrix) float64 {
	squared := squaredEuclideanDistance(target, source)
	d := float64(target.Cols())
	n := float64(target.Rows())
	m := float64(source.Rows())
	return squared.Sum() / (d * n * m)
}

// squaredEuclideanDistance returns an N x M matrix of squared
// distances between every row of a (N x D) and every row of b (M x D).
func squaredEuclideanDistance(a, b *matx.Matrix) *matx.Matrix {
	n, m, d := a.Rows(), b.Rows(), a.Cols()
	out := matx.New(n, m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			var sum float64
			for k := 0; k < d; k++ {
				diff := a.At(i, k) - b.At(j, k)
				sum += diff * diff
			}
			out.Set(i, j, sum)
		}
	}
	return out
}

func gaussianKernel(a, b *matx.Matrix, beta float64) *matx.Matrix {
	squared := squaredEuclideanDistance(a, b)
	out := matx.New(squared.Rows(), squared.Cols())
	for i := 0; i < squared.Rows(); i++ {
		for j := 0; j < squared.Cols(); j++ {
			out.Set(i, j, math.Exp(-squared.At(i, j)/(2*beta*beta)))
		}
	}
	return out
}

func transformPointCloud(source, gaussianKernel, w *matx.Matrix) *matx.Matrix {
	return source.Add(gaussianKernel.Mul(w))
}

func updateVariance(target, transformed *matx.Matrix, rowSums, colSums []float64, px *matx.Matrix, variance, tolerance float64) (newVariance, delta float64) {
	targetSquaredRowSums := rowSumOfSquares(target)
	transformedSquaredRowSums := rowSumOfSquares(transformed)

	var xpx float64
	for i, v := range colSums {
		xpx += v * targetSquaredRowSums[i]
	}
	var ypy float64
	for i, v := range rowSums {
		ypy += v * transformedSquaredRowSums[i]
	}

	var trPXT float64
	for i := 0; i < transformed.Rows(); i++ {
		for j := 0; j < transformed.Cols(); j++ {
			trPXT += transformed.At(i, j) * px.At(i, j)
		}
	}

	var sumRowSums float64
	for _, v := range rowSums {
		sumRowSums += v
	}
	d := float64(target.Cols())

	newVariance = (xpx - 2*trPXT + ypy) / (sumRowSums * d)
	if newVariance <= 0 {
		newVariance = tolerance / 10
	}
	delta = math.Abs(newVariance - variance)
	return newVariance, delta
}

func rowSumOfSquares(m *matx.Matrix) []float64 {
	out := make([]float64, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		var sum float64
		for j := 0; j < m.Cols(); j++ {
			v := m.At(i, j)
			sum += v * v
		}
		out[i] = sum
	}
	return out
}
