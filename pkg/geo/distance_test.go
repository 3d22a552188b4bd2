package geo

import (
	"math"
	"testing"
)

func TestDistanceKmZeroForSamePoint(t *testing.T) {
	if d := DistanceKm(12.9716, 77.5946, 12.9716, 77.5946); d != 0 {
		t.Fatalf("expected 0 got %f", d)
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{12.9716, 77.5946, 13.0827, 80.2707},
		{28.6139, 77.2090, 19.0760, 72.8777},
		{-33.8688, 151.2093, 51.5074, -0.1278},
	}
	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1], p[2], p[3])
		ba := DistanceKm(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
		}
	}
}

func TestDistanceKmKnownValue(t *testing.T) {
	// Bengaluru -> Chennai is roughly 290 km great-circle.
	d := DistanceKm(12.9716, 77.5946, 13.0827, 80.2707)
	if d < 280 || d > 300 {
		t.Fatalf("unexpected Bengaluru-Chennai distance %f", d)
	}
}

func TestDistanceKmTriangleInequality(t *testing.T) {
	a := Point{12.9716, 77.5946}
	b := Point{13.0827, 80.2707}
	c := Point{17.3850, 78.4867}

	ab := Distance(a, b)
	bc := Distance(b, c)
	ac := Distance(a, c)
	if ac > ab+bc+1e-6 {
		t.Fatalf("triangle inequality violated: %f > %f", ac, ab+bc)
	}
}
