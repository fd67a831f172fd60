package tiling

import "math"

// TileGrid describes a validated partition of an image into
// fixed-size, overlapping square tiles.
type TileGrid struct {
	width, height int
	tileSize      int
	overlap       OverlapRatio
	stride        int
	rows, cols    int
}

// NewTileGrid validates the parameters and constructs the grid, or
// returns a *TileGridError naming exactly which invariant failed.
// Validation is total: one of InvalidTileSize,
// IncompatibleProportionWithTileSize, or UnevenImageDivision fires
// before any layout work happens.
func NewTileGrid(width, height, tileSize int, overlap OverlapRatio) (*TileGrid, error) {
	if tileSize > width || tileSize > height {
		return nil, &TileGridError{Kind: InvalidTileSize, Width: width, Height: height, TileSize: tileSize, Overlap: overlap}
	}
	stride, exact := overlap.DivideTileSize(tileSize)
	if !exact {
		return nil, &TileGridError{Kind: IncompatibleProportionWithTileSize, Width: width, Height: height, TileSize: tileSize, Overlap: overlap}
	}
	if (width-tileSize)%stride != 0 || (height-tileSize)%stride != 0 {
		return nil, &TileGridError{Kind: UnevenImageDivision, Width: width, Height: height, TileSize: tileSize, Overlap: overlap}
	}

	rows := (height-tileSize)/stride + 1
	cols := (width-tileSize)/stride + 1
	return &TileGrid{
		width: width, height: height,
		tileSize: tileSize, overlap: overlap,
		stride: stride, rows: rows, cols: cols,
	}, nil
}

func (g *TileGrid) Rows() int     { return g.rows }
func (g *TileGrid) Cols() int     { return g.cols }
func (g *TileGrid) Stride() int   { return g.stride }
func (g *TileGrid) TileSize() int { return g.tileSize }

// Views produces the grid's tiles as borrowed views into img, in
// row-major order: Views()[r][c] covers rows [r*stride, r*stride+tileSize)
// and columns [c*stride, c*stride+tileSize) of img.
func (g *TileGrid) Views(img *Image) [][]View {
	out := make([][]View, g.rows)
	for r := 0; r < g.rows; r++ {
		row := make([]View, g.cols)
		for c := 0; c < g.cols; c++ {
			row[c] = View{
				image: img,
				Row:   r, Col: c,
				Top: r * g.stride, Left: c * g.stride,
				Size: g.tileSize,
			}
		}
		out[r] = row
	}
	return out
}

// FittingSize computes the smallest (width, height) that strictly
// covers (width, height) while satisfying TileGrid's divisibility
// invariants for the given tile size and overlap — the target
// dimensions PadToFit pads up to.
func FittingSize(width, height, tileSize int, overlap OverlapRatio) (fitWidth, fitHeight int) {
	stride, exact := overlap.DivideTileSize(tileSize)
	if !exact {
		// No integer stride exists for this (tileSize, overlap) pair;
		// the caller's subsequent NewTileGrid call will surface
		// IncompatibleProportionWithTileSize.
		return width, height
	}
	fitWidth = ceilToGrid(width, tileSize, stride)
	fitHeight = ceilToGrid(height, tileSize, stride)
	return fitWidth, fitHeight
}

// ceilToGrid returns the smallest dim' >= dim such that tileSize <= dim'
// and (dim' - tileSize) is a multiple of stride.
func ceilToGrid(dim, tileSize, stride int) int {
	if dim <= tileSize {
		return tileSize
	}
	steps := math.Ceil(float64(dim-tileSize) / float64(stride))
	return tileSize + int(steps)*stride
}

// PadToFit right/bottom-pads img with zero-valued pixels to the
// smallest size that admits a valid TileGrid at (tileSize, overlap).
// The original top-left content is preserved at offset (0, 0), so
// detection coordinates computed against the padded image remain
// interpretable against the original. Padding never crops: if the
// computed target ever came out smaller than the original in either
// dimension, that's a defect in FittingSize, reported as a
// *PaddingError rather than silently truncating.
func PadToFit(img *Image, tileSize int, overlap OverlapRatio) (*Image, error) {
	newWidth, newHeight := FittingSize(img.Width, img.Height, tileSize, overlap)
	if err := validatePadding(img.Width, img.Height, newWidth, newHeight); err != nil {
		return nil, err
	}
	if newWidth == img.Width && newHeight == img.Height {
		return img, nil
	}

	out := NewImage(img.Channels, newHeight, newWidth)
	for c := 0; c < img.Channels; c++ {
		for y := 0; y < img.Height; y++ {
			srcRow := img.Data[img.offset(c, y, 0) : img.offset(c, y, 0)+img.Width]
			dstOff := out.offset(c, y, 0)
			copy(out.Data[dstOff:dstOff+img.Width], srcRow)
		}
	}
	return out, nil
}

func validatePadding(originalWidth, originalHeight, newWidth, newHeight int) error {
	widthTooSmall := newWidth < originalWidth
	heightTooSmall := newHeight < originalHeight
	switch {
	case widthTooSmall && heightTooSmall:
		return &PaddingError{Kind: InvalidDimensions, OriginalWidth: originalWidth, OriginalHeight: originalHeight, NewWidth: newWidth, NewHeight: newHeight}
	case widthTooSmall:
		return &PaddingError{Kind: InvalidWidth, OriginalWidth: originalWidth, OriginalHeight: originalHeight, NewWidth: newWidth, NewHeight: newHeight}
	case heightTooSmall:
		return &PaddingError{Kind: InvalidHeight, OriginalWidth: originalWidth, OriginalHeight: originalHeight, NewWidth: newWidth, NewHeight: newHeight}
	default:
		return nil
	}
}
