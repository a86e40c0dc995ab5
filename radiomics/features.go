// Package radiomics extracts quantitative intensity, shape, and texture
// features from a grayscale image restricted to a binary region of
// interest. It stands in for the pre-built feature-extraction libraries
// available on other platforms: callers hand it an image and a mask and
// get back one flat row of named features.
package radiomics

import (
	"fmt"
	"image"

	"github.com/mileni98/mg-classification/maskimg"
)

// DefaultBins is the gray-level quantization used for the histogram and
// co-occurrence features.
const DefaultBins = 8

// A FeatureRow is one extraction result. The csv tags define the column
// layout of the per-scale, per-mode output files.
type FeatureRow struct {
	Image string `csv:"image"`
	Mask  string `csv:"mask"`

	FOMean       float64 `csv:"firstorder_Mean"`
	FOMedian     float64 `csv:"firstorder_Median"`
	FOMin        float64 `csv:"firstorder_Minimum"`
	FOMax        float64 `csv:"firstorder_Maximum"`
	FORange      float64 `csv:"firstorder_Range"`
	FOVariance   float64 `csv:"firstorder_Variance"`
	FOSkewness   float64 `csv:"firstorder_Skewness"`
	FOKurtosis   float64 `csv:"firstorder_Kurtosis"`
	FOEnergy     float64 `csv:"firstorder_Energy"`
	FOEntropy    float64 `csv:"firstorder_Entropy"`
	FOUniformity float64 `csv:"firstorder_Uniformity"`
	FOP10        float64 `csv:"firstorder_10Percentile"`
	FOP90        float64 `csv:"firstorder_90Percentile"`
	FOIQR        float64 `csv:"firstorder_InterquartileRange"`
	FOMAD        float64 `csv:"firstorder_MedianAbsoluteDeviation"`
	FORMS        float64 `csv:"firstorder_RootMeanSquared"`

	ShapeArea               float64 `csv:"shape_Area"`
	ShapePerimeter          float64 `csv:"shape_Perimeter"`
	ShapePerimeterAreaRatio float64 `csv:"shape_PerimeterAreaRatio"`
	ShapeCompactness        float64 `csv:"shape_Compactness"`
	ShapeMajorAxis          float64 `csv:"shape_MajorAxisLength"`
	ShapeMinorAxis          float64 `csv:"shape_MinorAxisLength"`
	ShapeElongation         float64 `csv:"shape_Elongation"`
	ShapeEccentricity       float64 `csv:"shape_Eccentricity"`
	ShapeCentroidX          float64 `csv:"shape_CentroidX"`
	ShapeCentroidY          float64 `csv:"shape_CentroidY"`

	GLCMContrast           float64 `csv:"glcm_Contrast"`
	GLCMDissimilarity      float64 `csv:"glcm_Dissimilarity"`
	GLCMHomogeneity        float64 `csv:"glcm_Homogeneity"`
	GLCMJointEnergy        float64 `csv:"glcm_JointEnergy"`
	GLCMJointEntropy       float64 `csv:"glcm_JointEntropy"`
	GLCMCorrelation        float64 `csv:"glcm_Correlation"`
	GLCMAutocorrelation    float64 `csv:"glcm_Autocorrelation"`
	GLCMClusterShade       float64 `csv:"glcm_ClusterShade"`
	GLCMClusterProminence  float64 `csv:"glcm_ClusterProminence"`
	GLCMMaximumProbability float64 `csv:"glcm_MaximumProbability"`
}

type Extractor struct {
	// Bins is the gray-level quantization for histogram and GLCM
	// features.
	Bins int
}

func NewExtractor(bins int) Extractor {
	if bins < 2 {
		bins = DefaultBins
	}

	return Extractor{Bins: bins}
}

// Extract computes every feature column for one (image, mask) pair. The
// mask must match the image geometry and must contain at least one
// foreground/background boundary.
func (e Extractor) Extract(img image.Image, mask *maskimg.Mask) (FeatureRow, error) {
	bounds := img.Bounds()
	if mask.Width() != bounds.Dx() || mask.Height() != bounds.Dy() {
		return FeatureRow{}, fmt.Errorf("mask geometry %dx%d does not match image geometry %dx%d",
			mask.Width(), mask.Height(), bounds.Dx(), bounds.Dy())
	}

	if mask.Degenerate() {
		return FeatureRow{}, fmt.Errorf("mask is degenerate (entirely foreground or entirely background)")
	}

	values := roiValues(img, mask)

	fo, err := computeFirstOrder(values, e.Bins)
	if err != nil {
		return FeatureRow{}, err
	}

	shape, err := computeShape(mask)
	if err != nil {
		return FeatureRow{}, err
	}

	glcm, err := computeGLCM(quantizeGrid(values, mask, e.Bins), mask, e.Bins)
	if err != nil {
		return FeatureRow{}, err
	}

	out := FeatureRow{
		FOMean:       fo.Mean,
		FOMedian:     fo.Median,
		FOMin:        fo.Min,
		FOMax:        fo.Max,
		FORange:      fo.Range,
		FOVariance:   fo.Variance,
		FOSkewness:   fo.Skewness,
		FOKurtosis:   fo.Kurtosis,
		FOEnergy:     fo.Energy,
		FOEntropy:    fo.Entropy,
		FOUniformity: fo.Uniformity,
		FOP10:        fo.P10,
		FOP90:        fo.P90,
		FOIQR:        fo.IQR,
		FOMAD:        fo.MAD,
		FORMS:        fo.RMS,

		ShapeArea:               shape.Area,
		ShapePerimeter:          shape.Perimeter,
		ShapePerimeterAreaRatio: shape.PerimeterAreaRatio,
		ShapeCompactness:        shape.Compactness,
		ShapeMajorAxis:          shape.MajorAxis,
		ShapeMinorAxis:          shape.MinorAxis,
		ShapeElongation:         shape.Elongation,
		ShapeEccentricity:       shape.Eccentricity,
		ShapeCentroidX:          shape.CentroidX,
		ShapeCentroidY:          shape.CentroidY,

		GLCMContrast:           glcm.Contrast,
		GLCMDissimilarity:      glcm.Dissimilarity,
		GLCMHomogeneity:        glcm.Homogeneity,
		GLCMJointEnergy:        glcm.JointEnergy,
		GLCMJointEntropy:       glcm.JointEntropy,
		GLCMCorrelation:        glcm.Correlation,
		GLCMAutocorrelation:    glcm.Autocorrelation,
		GLCMClusterShade:       glcm.ClusterShade,
		GLCMClusterProminence:  glcm.ClusterProminence,
		GLCMMaximumProbability: glcm.MaximumProbability,
	}

	return out, nil
}
