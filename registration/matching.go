package registration

import "github.com/periopdigitize/chartextract/internal/matx"

// Match is one emitted correspondence from greedy matching extraction:
// source row i paired with target row j, at the probability P had at
// the moment it was picked.
type Match struct {
	SourceIndex int
	TargetIndex int
	Probability float64
}

// ExtractMatching performs the deterministic greedy one-to-one
// matching over P described in spec.md §4.4: repeatedly take the
// largest remaining entry, emit it, remove its row and column from
// consideration, and stop when either dimension is exhausted. Returned
// matches are in descending-probability order.
//
// Complexity is O((M*N)^2) worst case, acceptable since M and N are at
// most a few tens of points.
func ExtractMatching(p *matx.Matrix) []Match {
	rows, cols := p.Rows(), p.Cols()
	rowUsed := make([]bool, rows)
	colUsed := make([]bool, cols)

	limit := rows
	if cols < limit {
		limit = cols
	}

	matches := make([]Match, 0, limit)
	for n := 0; n < limit; n++ {
		bestI, bestJ := -1, -1
		best := 0.0
		found := false
		for i := 0; i < rows; i++ {
			if rowUsed[i] {
				continue
			}
			for j := 0; j < cols; j++ {
				if colUsed[j] {
					continue
				}
				v := p.At(i, j)
				if !found || v > best {
					best = v
					bestI, bestJ = i, j
					found = true
				}
			}
		}
		if !found {
			break
		}
		rowUsed[bestI] = true
		colUsed[bestJ] = true
		matches = append(matches, Match{SourceIndex: bestI, TargetIndex: bestJ, Probability: best})
	}
	return matches
}
