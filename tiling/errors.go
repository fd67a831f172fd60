package tiling

import "fmt"

// TileGridErrorKind enumerates the total validation failures TileGrid
// construction can report, matching the original tiling engine's error
// taxonomy (image_utils/tiling.rs, extended here per spec.md §4.1).
type TileGridErrorKind int

const (
	// InvalidTileSize: the tile size exceeds the image's width or height.
	InvalidTileSize TileGridErrorKind = iota
	// IncompatibleProportionWithTileSize: tile_size*num is not divisible by den.
	IncompatibleProportionWithTileSize
	// UnevenImageDivision: (dim - tile_size) is not divisible by the stride.
	UnevenImageDivision
)

func (k TileGridErrorKind) String() string {
	switch k {
	case InvalidTileSize:
		return "InvalidTileSize"
	case IncompatibleProportionWithTileSize:
		return "IncompatibleProportionWithTileSize"
	case UnevenImageDivision:
		return "UnevenImageDivision"
	default:
		return "Unknown"
	}
}

// TileGridError reports why a TileGrid could not be constructed from
// the given parameters.
type TileGridError struct {
	Kind     TileGridErrorKind
	Width    int
	Height   int
	TileSize int
	Overlap  OverlapRatio
}

func (e *TileGridError) Error() string {
	switch e.Kind {
	case InvalidTileSize:
		return fmt.Sprintf("tiling: tile size %d exceeds image dimensions %dx%d", e.TileSize, e.Width, e.Height)
	case IncompatibleProportionWithTileSize:
		return fmt.Sprintf("tiling: tile size %d is incompatible with overlap ratio %d/%d", e.TileSize, e.Overlap.Numerator(), e.Overlap.Denominator())
	case UnevenImageDivision:
		return fmt.Sprintf("tiling: image %dx%d does not divide evenly into tiles of size %d at overlap %d/%d", e.Width, e.Height, e.TileSize, e.Overlap.Numerator(), e.Overlap.Denominator())
	default:
		return "tiling: invalid tile grid parameters"
	}
}

// PaddingErrorKind enumerates why PadToFit could not produce a
// sufficient, non-cropping target size.
type PaddingErrorKind int

const (
	// InvalidWidth: the computed target width is smaller than the original.
	InvalidWidth PaddingErrorKind = iota
	// InvalidHeight: the computed target height is smaller than the original.
	InvalidHeight
	// InvalidDimensions: both width and height came out smaller than the original.
	InvalidDimensions
)

// PaddingError reports that padding would have had to crop the image,
// which padding never does (per spec.md §4.1, "Padding never crops").
// This indicates a defect in the target-size computation, not a normal
// input-validation failure, since PadToFit always computes a
// strictly-covering size by construction.
type PaddingError struct {
	Kind                                     PaddingErrorKind
	OriginalWidth, OriginalHeight            int
	NewWidth, NewHeight                      int
}

func (e *PaddingError) Error() string {
	switch e.Kind {
	case InvalidWidth:
		return fmt.Sprintf("tiling: padded width %d is smaller than original width %d", e.NewWidth, e.OriginalWidth)
	case InvalidHeight:
		return fmt.Sprintf("tiling: padded height %d is smaller than original height %d", e.NewHeight, e.OriginalHeight)
	case InvalidDimensions:
		return fmt.Sprintf("tiling: padded size %dx%d is smaller than original %dx%d", e.NewWidth, e.NewHeight, e.OriginalWidth, e.OriginalHeight)
	default:
		return "tiling: invalid padding parameters"
	}
}
