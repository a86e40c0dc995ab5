package radiomics

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/mileni98/mg-classification/maskimg"
)

// TargetSize computes the output dimensions for a resampling factor.
// Dimensions never drop below 1x1.
func TargetSize(bounds image.Rectangle, factor float64) (int, int) {
	width := int(math.Round(float64(bounds.Dx()) * factor))
	height := int(math.Round(float64(bounds.Dy()) * factor))

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	return width, height
}

// Resample rescales an intensity image by the given factor using Lanczos
// resampling.
func Resample(img image.Image, factor float64) (image.Image, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("resampling factor must be positive, got %g", factor)
	}

	width, height := TargetSize(img.Bounds(), factor)

	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}

// ResampleMask rescales a binary mask by the given factor. Nearest
// neighbor is intentional: it cannot introduce intermediate gray values,
// so the result stays binary.
func ResampleMask(m *maskimg.Mask, factor float64) (*maskimg.Mask, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("resampling factor must be positive, got %g", factor)
	}

	width, height := TargetSize(image.Rect(0, 0, m.Width(), m.Height()), factor)
	resized := imaging.Resize(m.ToImage(), width, height, imaging.NearestNeighbor)

	return maskimg.FromImage(resized, maskimg.DefaultThreshold), nil
}
