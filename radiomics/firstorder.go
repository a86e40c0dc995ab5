package radiomics

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

type firstOrder struct {
	Mean       float64
	Median     float64
	Min        float64
	Max        float64
	Range      float64
	Variance   float64
	Skewness   float64
	Kurtosis   float64
	Energy     float64
	Entropy    float64
	Uniformity float64
	P10        float64
	P90        float64
	IQR        float64
	MAD        float64
	RMS        float64
}

// computeFirstOrder summarizes the distribution of ROI intensities.
// Entropy and Uniformity operate on the quantized histogram; the rest
// operate on the raw intensities.
func computeFirstOrder(values []float64, bins int) (firstOrder, error) {
	if len(values) == 0 {
		return firstOrder{}, fmt.Errorf("no intensity values in region of interest")
	}

	out := firstOrder{
		Mean:     stat.Mean(values, nil),
		Variance: stat.Variance(values, nil),
	}

	// Skew and kurtosis are undefined for constant regions; gonum returns
	// NaN there, which we clamp to zero so every CSV cell stays numeric.
	if out.Variance > 0 {
		out.Skewness = stat.Skew(values, nil)
		out.Kurtosis = stat.ExKurtosis(values, nil)
	}

	var err error
	if out.Median, err = stats.Median(values); err != nil {
		return out, err
	}
	if out.Min, err = stats.Min(values); err != nil {
		return out, err
	}
	if out.Max, err = stats.Max(values); err != nil {
		return out, err
	}
	out.Range = out.Max - out.Min

	if out.P10, err = stats.Percentile(values, 10); err != nil {
		return out, err
	}
	if out.P90, err = stats.Percentile(values, 90); err != nil {
		return out, err
	}
	if out.IQR, err = stats.InterQuartileRange(values); err != nil {
		return out, err
	}
	if out.MAD, err = stats.MedianAbsoluteDeviation(values); err != nil {
		return out, err
	}

	var sumSquares float64
	for _, v := range values {
		sumSquares += v * v
	}
	out.Energy = sumSquares
	out.RMS = math.Sqrt(sumSquares / float64(len(values)))

	probabilities := binCounts(quantize(values, bins), bins)
	for _, p := range probabilities {
		if p == 0 {
			continue
		}
		out.Entropy -= p * math.Log2(p)
		out.Uniformity += p * p
	}

	return out, nil
}
