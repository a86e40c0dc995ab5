package maskimg

import (
	"image"
	"image/color"
)

const (
	Background uint8 = 0
	Foreground uint8 = 1
)

// DefaultThreshold is the luminance cutoff used to binarize mask images
// whose encoders did not emit pure 0/255 values.
const DefaultThreshold uint8 = 128

// A Mask is a binary foreground/background raster. Pixels hold Foreground
// (1) or Background (0).
type Mask struct {
	data [][]uint8
}

// New creates an all-background mask with the given dimensions.
func New(width, height int) *Mask {
	data := make([][]uint8, height)
	for y := range data {
		data[y] = make([]uint8, width)
	}

	return &Mask{data: data}
}

// FromImage binarizes any decoded image by luminance threshold. Pixels at
// or above the threshold become foreground.
func FromImage(img image.Image, threshold uint8) *Mask {
	bounds := img.Bounds()
	out := New(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if gray.Y >= threshold {
				out.data[y-bounds.Min.Y][x-bounds.Min.X] = Foreground
			}
		}
	}

	return out
}

// Full creates a whole-image foreground mask with a background border ring
// already applied, so that it contains a foreground/background boundary
// whenever the geometry leaves room for one (at least 3 px in the smaller
// dimension).
func Full(width, height, borderWidth int) *Mask {
	out := New(width, height)
	for y := range out.data {
		for x := range out.data[y] {
			out.data[y][x] = Foreground
		}
	}
	out.drawBorder(borderWidth, Background)

	return out
}

func (m *Mask) Width() int {
	if len(m.data) == 0 {
		return 0
	}
	return len(m.data[0])
}

func (m *Mask) Height() int {
	return len(m.data)
}

// At returns the value at (x, y). Coordinates are 0-based from the top
// left corner.
func (m *Mask) At(x, y int) uint8 {
	return m.data[y][x]
}

func (m *Mask) Set(x, y int, value uint8) {
	m.data[y][x] = value
}

func (m *Mask) ForegroundCount() int {
	count := 0
	for _, row := range m.data {
		for _, v := range row {
			if v == Foreground {
				count++
			}
		}
	}

	return count
}

func (m *Mask) BackgroundCount() int {
	return m.Width()*m.Height() - m.ForegroundCount()
}

// Degenerate reports whether the mask has no foreground/background
// boundary at all, i.e. it is entirely foreground or entirely background.
// Feature extraction over a degenerate mask is undefined.
func (m *Mask) Degenerate() bool {
	fg := m.ForegroundCount()

	return fg == 0 || fg == m.Width()*m.Height()
}

// Normalize guarantees that the mask has at least one connected
// foreground/background boundary: an all-foreground mask gets a synthetic
// background border ring, an all-background mask gets a foreground ring.
// Non-degenerate masks pass through unchanged, as do masks too thin to
// hold any interior beside the ring (normalizing those would just repaint
// every pixel without creating a boundary). Reports whether the mask was
// modified. Normalizing twice is a no-op the second time.
func (m *Mask) Normalize(borderWidth int) bool {
	if !m.Degenerate() {
		return false
	}

	if m.ForegroundCount() == 0 {
		return m.drawBorder(borderWidth, Foreground)
	}

	return m.drawBorder(borderWidth, Background)
}

// drawBorder paints a ring of the given value along the image edge. The
// width is clamped so opposing rings never meet on small images. When the
// ring would cover every pixel (any mask 1-2 px in its smaller
// dimension), nothing is painted and drawBorder reports false: repainting
// the whole mask cannot create a boundary, it can only invert the mask.
func (m *Mask) drawBorder(width int, value uint8) bool {
	w, h := m.Width(), m.Height()
	if w == 0 || h == 0 {
		return false
	}

	minDim := w
	if h < minDim {
		minDim = h
	}
	if 2*width >= minDim {
		width = (minDim - 1) / 2
	}

	if width < 1 || w-2*width < 1 || h-2*width < 1 {
		return false
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < width || y < width || x >= w-width || y >= h-width {
				m.data[y][x] = value
			}
		}
	}

	return true
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	out := New(m.Width(), m.Height())
	for y, row := range m.data {
		copy(out.data[y], row)
	}

	return out
}

// ToImage renders the mask as an 8-bit gray image with background 0 and
// foreground 255, the format in which normalized masks are persisted.
func (m *Mask) ToImage() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width(), m.Height()))
	for y, row := range m.data {
		for x, v := range row {
			if v == Foreground {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return out
}
