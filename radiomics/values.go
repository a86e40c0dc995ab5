package radiomics

import (
	"image"
	"image/color"

	"github.com/mileni98/mg-classification/maskimg"
)

// roiValues collects the grayscale intensities (0-255) of every
// foreground pixel, in row-major order.
func roiValues(img image.Image, mask *maskimg.Mask) []float64 {
	bounds := img.Bounds()

	out := make([]float64, 0, mask.ForegroundCount())
	for y := 0; y < mask.Height(); y++ {
		for x := 0; x < mask.Width(); x++ {
			if mask.At(x, y) != maskimg.Foreground {
				continue
			}

			gray := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			out = append(out, float64(gray.Y))
		}
	}

	return out
}

// quantize maps intensities onto [0, bins) by equal-width binning over the
// observed intensity range. A flat region maps entirely onto bin 0.
func quantize(values []float64, bins int) []int {
	out := make([]int, len(values))
	if len(values) == 0 {
		return out
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		return out
	}

	width := (max - min) / float64(bins)
	for i, v := range values {
		bin := int((v - min) / width)
		if bin >= bins {
			bin = bins - 1
		}
		out[i] = bin
	}

	return out
}

// binCounts builds a normalized histogram over the quantized bins.
func binCounts(quantized []int, bins int) []float64 {
	counts := make([]float64, bins)
	for _, bin := range quantized {
		counts[bin]++
	}

	n := float64(len(quantized))
	if n > 0 {
		for i := range counts {
			counts[i] /= n
		}
	}

	return counts
}
