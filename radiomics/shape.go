package radiomics

import (
	"math"

	"github.com/mileni98/mg-classification/maskimg"
)

type shapeFeatures struct {
	Area               float64
	Perimeter          float64
	PerimeterAreaRatio float64
	Compactness        float64
	MajorAxis          float64
	MinorAxis          float64
	Elongation         float64
	Eccentricity       float64
	CentroidX          float64
	CentroidY          float64
}

// computeShape summarizes the geometry of the merged foreground region.
func computeShape(mask *maskimg.Mask) (shapeFeatures, error) {
	connected := maskimg.NewConnected(mask)

	moments, err := connected.ComputeValueMoments(maskimg.Foreground)
	if err != nil {
		return shapeFeatures{}, err
	}

	out := shapeFeatures{
		Area:         moments.Area,
		Perimeter:    perimeter(mask),
		MajorAxis:    moments.LongAxisPixels,
		MinorAxis:    moments.ShortAxisPixels,
		Eccentricity: moments.Eccentricity,
		CentroidX:    moments.Centroid.X,
		CentroidY:    moments.Centroid.Y,
	}

	if out.Area > 0 {
		out.PerimeterAreaRatio = out.Perimeter / out.Area
	}
	if out.Perimeter > 0 {
		out.Compactness = 4 * math.Pi * out.Area / (out.Perimeter * out.Perimeter)
	}
	if out.MajorAxis > 0 {
		out.Elongation = out.MinorAxis / out.MajorAxis
	}

	return out, nil
}

// perimeter counts foreground pixels that touch the background or the
// image edge through 4-connectivity.
func perimeter(mask *maskimg.Mask) float64 {
	count := 0
	for y := 0; y < mask.Height(); y++ {
		for x := 0; x < mask.Width(); x++ {
			if mask.At(x, y) != maskimg.Foreground {
				continue
			}
			if isBoundary(mask, x, y) {
				count++
			}
		}
	}

	return float64(count)
}

func isBoundary(mask *maskimg.Mask, x, y int) bool {
	neighbors := [][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
	for _, n := range neighbors {
		if n[0] < 0 || n[1] < 0 || n[0] >= mask.Width() || n[1] >= mask.Height() {
			return true
		}
		if mask.At(n[0], n[1]) == maskimg.Background {
			return true
		}
	}

	return false
}

// BoundaryPixels returns the coordinates of every foreground pixel on the
// foreground/background boundary, for overlay rendering.
func BoundaryPixels(mask *maskimg.Mask) []maskimg.Coord {
	var out []maskimg.Coord
	for y := 0; y < mask.Height(); y++ {
		for x := 0; x < mask.Width(); x++ {
			if mask.At(x, y) == maskimg.Foreground && isBoundary(mask, x, y) {
				out = append(out, maskimg.Coord{X: x, Y: y})
			}
		}
	}

	return out
}
