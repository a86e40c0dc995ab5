package maskimg

import (
	"math"
	"testing"
)

func TestMomentsCentroidAndArea(t *testing.T) {
	// A 4x4 square with top-left corner at (2,3)
	m := New(10, 10)
	for y := 3; y < 7; y++ {
		for x := 2; x < 6; x++ {
			m.Set(x, y, Foreground)
		}
	}

	moments, err := NewConnected(m).ComputeValueMoments(Foreground)
	if err != nil {
		t.Fatal(err)
	}

	if moments.Area != 16 {
		t.Errorf("Area = %g, want 16", moments.Area)
	}
	if math.Abs(moments.Centroid.X-3.5) > 1e-9 {
		t.Errorf("Centroid.X = %g, want 3.5", moments.Centroid.X)
	}
	if math.Abs(moments.Centroid.Y-4.5) > 1e-9 {
		t.Errorf("Centroid.Y = %g, want 4.5", moments.Centroid.Y)
	}
}

func TestMomentsEccentricity(t *testing.T) {
	// A square region has no preferred axis; a long thin region does.
	square := New(20, 20)
	for y := 5; y < 11; y++ {
		for x := 5; x < 11; x++ {
			square.Set(x, y, Foreground)
		}
	}

	thin := New(20, 20)
	for y := 9; y < 11; y++ {
		for x := 2; x < 18; x++ {
			thin.Set(x, y, Foreground)
		}
	}

	squareMoments, err := NewConnected(square).ComputeValueMoments(Foreground)
	if err != nil {
		t.Fatal(err)
	}
	thinMoments, err := NewConnected(thin).ComputeValueMoments(Foreground)
	if err != nil {
		t.Fatal(err)
	}

	if squareMoments.Eccentricity > 1e-6 {
		t.Errorf("square Eccentricity = %g, want ~0", squareMoments.Eccentricity)
	}
	if thinMoments.Eccentricity < 0.9 {
		t.Errorf("thin Eccentricity = %g, want > 0.9", thinMoments.Eccentricity)
	}
	if thinMoments.LongAxisPixels <= thinMoments.ShortAxisPixels {
		t.Errorf("LongAxisPixels (%g) should exceed ShortAxisPixels (%g)",
			thinMoments.LongAxisPixels, thinMoments.ShortAxisPixels)
	}
}

func TestMomentsPerComponent(t *testing.T) {
	m := New(10, 10)
	m.Set(1, 1, Foreground)
	for y := 5; y < 8; y++ {
		for x := 5; x < 8; x++ {
			m.Set(x, y, Foreground)
		}
	}

	connected := NewConnected(m)
	components := connected.ForegroundComponents()
	if len(components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(components))
	}

	moments, err := connected.ComputeMoments(components[1])
	if err != nil {
		t.Fatal(err)
	}
	if moments.Area != 9 {
		t.Errorf("component Area = %g, want 9", moments.Area)
	}
	if math.Abs(moments.Centroid.X-6) > 1e-9 || math.Abs(moments.Centroid.Y-6) > 1e-9 {
		t.Errorf("component centroid = (%g, %g), want (6, 6)", moments.Centroid.X, moments.Centroid.Y)
	}
}

func TestMomentsEmptyRegion(t *testing.T) {
	m := New(5, 5)

	if _, err := NewConnected(m).ComputeValueMoments(Foreground); err == nil {
		t.Fatal("expected an error for a region with no pixels")
	}
}
