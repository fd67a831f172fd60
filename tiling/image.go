package tiling

// Image is a dense, single-batch CHW tensor: Channels planes of
// Height x Width, row-major within each plane. It stands in for the
// decoded image feeding the tile grid; how the bytes got there (PNG/
// JPEG decode, letterboxing) is a collaborator's concern, not this
// package's.
type Image struct {
	Channels, Height, Width int
	Data                    []float32
}

// NewImage allocates a zero-valued image.
func NewImage(channels, height, width int) *Image {
	return &Image{
		Channels: channels,
		Height:   height,
		Width:    width,
		Data:     make([]float32, channels*height*width),
	}
}

func (img *Image) offset(c, y, x int) int {
	return c*img.Height*img.Width + y*img.Width + x
}

func (img *Image) At(c, y, x int) float32 {
	return img.Data[img.offset(c, y, x)]
}

func (img *Image) Set(c, y, x int, v float32) {
	img.Data[img.offset(c, y, x)] = v
}

// View is a borrowed, zero-copy window into an Image at a tile grid
// position. It holds no data of its own: reads go through to the
// backing Image at an offset, so no tile ever aliases another tile's
// mutations (there are none — views are read-only).
type View struct {
	image      *Image
	Row, Col   int // grid coordinates, row-major
	Top, Left  int // pixel offset of this tile's origin within image
	Size       int // tile edge length
}

func (v *View) At(c, y, x int) float32 {
	if y < 0 || y >= v.Size || x < 0 || x >= v.Size {
		panic("tiling: view index out of range")
	}
	return v.image.At(c, v.Top+y, v.Left+x)
}

// Channels reports the number of channels in the backing image.
func (v *View) Channels() int { return v.image.Channels }
