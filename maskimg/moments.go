package maskimg

import (
	"fmt"
	"math"
)

type CentralMoments struct {
	Bounds struct {
		TopLeft     Coord
		BottomRight Coord
	}
	Area     float64
	Centroid struct {
		X, Y float64
	}
	LongAxisOrientationRadians float64
	LongAxisPixels             float64
	ShortAxisPixels            float64
	Eccentricity               float64
}

// ComputeMoments derives central image moments for one labeled component.
func (c *Connected) ComputeMoments(component ConnectedComponent) (CentralMoments, error) {
	return c.moments(component.Bounds.TopLeft, component.Bounds.BottomRight, func(x, y int) bool {
		return c.labels[y][x] == component.ComponentID
	})
}

// ComputeValueMoments derives central image moments over every pixel that
// holds the given binary value, regardless of which component it belongs
// to. This is the merged-region variant used for whole-ROI shape
// statistics.
func (c *Connected) ComputeValueMoments(value uint8) (CentralMoments, error) {
	topLeft := Coord{X: 0, Y: 0}
	bottomRight := Coord{X: c.mask.Width() - 1, Y: c.mask.Height() - 1}

	return c.moments(topLeft, bottomRight, func(x, y int) bool {
		return c.mask.At(x, y) == value
	})
}

func (c *Connected) moments(topLeft, bottomRight Coord, include func(x, y int) bool) (CentralMoments, error) {
	// Via https://en.wikipedia.org/wiki/Image_moment

	// Convention:
	// M* = raw moments
	// mu* = central moments

	// MX0Y0 is the sum of all pixels that apply to our region (the area of
	// the region, ignoring non-region parts of our bounding box)
	var MX0Y0 float64

	// The sum of just the Y coordinate of all pixels of our region
	var MX0Y1 float64

	// The sum of just the X coordinate of all pixels of our region
	var MX1Y0 float64

	// X*Y
	var MX1Y1 float64

	// Higher order raw moments
	var MX2Y0 float64
	var MX0Y2 float64

	for y := topLeft.Y; y <= bottomRight.Y; y++ {
		for x := topLeft.X; x <= bottomRight.X; x++ {
			if !include(x, y) {
				continue
			}

			MX0Y0++
			MX0Y1 += float64(y)
			MX1Y0 += float64(x)
			MX1Y1 += float64(x * y)
			MX2Y0 += float64(x * x)
			MX0Y2 += float64(y * y)
		}
	}

	if MX0Y0 == 0 {
		return CentralMoments{}, fmt.Errorf("no pixels relevant to the requested region were detected between %v and %v", topLeft, bottomRight)
	}

	meanX := MX1Y0 / MX0Y0
	meanY := MX0Y1 / MX0Y0

	// First-order central moments
	muX0Y0 := MX0Y0
	muX1Y1 := MX1Y1 - meanX*MX0Y1
	muX2Y0 := MX2Y0 - meanX*MX1Y0
	muX0Y2 := MX0Y2 - meanY*MX0Y1

	// Second-order central moments
	muPrimeX2Y0 := muX2Y0 / muX0Y0
	muPrimeX0Y2 := muX0Y2 / muX0Y0
	muPrimeX1Y1 := muX1Y1 / muX0Y0

	// Used to construct eigenvalues
	eigenBase := muPrimeX2Y0 + muPrimeX0Y2
	eigenRoot := math.Sqrt(4*math.Pow(muPrimeX1Y1, 2.0) + math.Pow(muPrimeX2Y0-muPrimeX0Y2, 2.0))

	// See http://raphael.candelier.fr/?blog=Image%20Moments for controversy
	// around the Eigenvalue constants.
	eigen1 := math.Sqrt(8 * (eigenBase - eigenRoot)) // w, minor elliptical axis
	eigen2 := math.Sqrt(8 * (eigenBase + eigenRoot)) // l, major elliptical axis

	var computedRadians float64
	if muPrimeX2Y0 == muPrimeX0Y2 {
		// No eccentricity by first order moments. Would lead to division
		// by zero, so instead just arbitrarily choose one of the axes.
		computedRadians = 0
	} else {
		computedRadians = 0.5 * math.Atan(2*muPrimeX1Y1/(muPrimeX2Y0-muPrimeX0Y2))
	}

	m := CentralMoments{
		Area: MX0Y0,
		Centroid: struct{ X, Y float64 }{
			X: meanX,
			Y: meanY,
		},
		LongAxisOrientationRadians: computedRadians,
		LongAxisPixels:             eigen2,
		ShortAxisPixels:            eigen1,
	}
	m.Bounds.TopLeft = topLeft
	m.Bounds.BottomRight = bottomRight

	if eigen2 > 0 {
		m.Eccentricity = math.Sqrt(1 - eigen1/eigen2)
	}

	return m, nil
}
