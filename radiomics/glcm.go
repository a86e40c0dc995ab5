package radiomics

import (
	"fmt"
	"math"

	"github.com/mileni98/mg-classification/maskimg"
	"gonum.org/v1/gonum/mat"
)

// glcmOffsets are the four standard 2D co-occurrence directions (0, 45,
// 90, 135 degrees). The matrix is accumulated symmetrically, so the
// opposing four directions are covered implicitly.
var glcmOffsets = [][2]int{
	{1, 0},
	{0, 1},
	{1, 1},
	{1, -1},
}

type glcmFeatures struct {
	Contrast           float64
	Dissimilarity      float64
	Homogeneity        float64
	JointEnergy        float64
	JointEntropy       float64
	Correlation        float64
	Autocorrelation    float64
	ClusterShade       float64
	ClusterProminence  float64
	MaximumProbability float64
}

// computeGLCM builds a normalized, symmetric gray-level co-occurrence
// matrix over the quantized ROI and derives texture features from it.
// Pixel pairs count only when both ends fall inside the mask foreground.
func computeGLCM(quantizedGrid [][]int, mask *maskimg.Mask, bins int) (glcmFeatures, error) {
	counts := mat.NewDense(bins, bins, nil)

	pairs := 0
	for y := 0; y < mask.Height(); y++ {
		for x := 0; x < mask.Width(); x++ {
			if mask.At(x, y) != maskimg.Foreground {
				continue
			}

			for _, offset := range glcmOffsets {
				nx, ny := x+offset[0], y+offset[1]
				if nx < 0 || ny < 0 || nx >= mask.Width() || ny >= mask.Height() {
					continue
				}
				if mask.At(nx, ny) != maskimg.Foreground {
					continue
				}

				i, j := quantizedGrid[y][x], quantizedGrid[ny][nx]
				counts.Set(i, j, counts.At(i, j)+1)
				counts.Set(j, i, counts.At(j, i)+1)
				pairs += 2
			}
		}
	}

	if pairs == 0 {
		return glcmFeatures{}, fmt.Errorf("region of interest has no co-occurring pixel pairs")
	}

	p := mat.NewDense(bins, bins, nil)
	p.Scale(1/float64(pairs), counts)

	// Marginal distribution. Symmetry makes the row and column marginals
	// identical.
	marginal := make([]float64, bins)
	for i := 0; i < bins; i++ {
		for j := 0; j < bins; j++ {
			marginal[i] += p.At(i, j)
		}
	}

	var marginalMean, marginalVar float64
	for i, v := range marginal {
		marginalMean += float64(i) * v
	}
	for i, v := range marginal {
		marginalVar += (float64(i) - marginalMean) * (float64(i) - marginalMean) * v
	}

	var out glcmFeatures
	for i := 0; i < bins; i++ {
		for j := 0; j < bins; j++ {
			pij := p.At(i, j)
			if pij == 0 {
				continue
			}

			fi, fj := float64(i), float64(j)
			diff := fi - fj
			sum := fi + fj - 2*marginalMean

			out.Contrast += diff * diff * pij
			out.Dissimilarity += math.Abs(diff) * pij
			out.Homogeneity += pij / (1 + diff*diff)
			out.JointEnergy += pij * pij
			out.JointEntropy -= pij * math.Log2(pij)
			out.Autocorrelation += fi * fj * pij
			out.ClusterShade += sum * sum * sum * pij
			out.ClusterProminence += sum * sum * sum * sum * pij

			if marginalVar > 0 {
				out.Correlation += (fi - marginalMean) * (fj - marginalMean) * pij / marginalVar
			}

			if pij > out.MaximumProbability {
				out.MaximumProbability = pij
			}
		}
	}

	return out, nil
}

// quantizeGrid maps the ROI intensities onto a full-image grid of bin
// indices. Pixels outside the mask keep bin 0 but are never consulted.
func quantizeGrid(values []float64, mask *maskimg.Mask, bins int) [][]int {
	quantized := quantize(values, bins)

	grid := make([][]int, mask.Height())
	for y := range grid {
		grid[y] = make([]int, mask.Width())
	}

	idx := 0
	for y := 0; y < mask.Height(); y++ {
		for x := 0; x < mask.Width(); x++ {
			if mask.At(x, y) != maskimg.Foreground {
				continue
			}
			grid[y][x] = quantized[idx]
			idx++
		}
	}

	return grid
}
