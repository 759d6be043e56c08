package app_test

import (
	"math"
	"testing"

	"launderette_near/internal/app"
)

func TestDistanceMiles_Symmetric(t *testing.T) {
	// London -> Manchester and back
	d1 := app.DistanceMiles(51.5074, -0.1278, 53.4808, -2.2426)
	d2 := app.DistanceMiles(53.4808, -2.2426, 51.5074, -0.1278)
	if d1 != d2 {
		t.Fatalf("distance not symmetric: %f vs %f", d1, d2)
	}
	// ~163 miles as the crow flies
	if d1 < 150 || d1 > 175 {
		t.Fatalf("London-Manchester distance out of range: %f", d1)
	}
}

func TestDistanceMiles_SamePointIsZero(t *testing.T) {
	if d := app.DistanceMiles(51.5074, -0.1278, 51.5074, -0.1278); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestDistanceMiles_GarbagePropagates(t *testing.T) {
	if d := app.DistanceMiles(math.NaN(), 0, 51.5, -0.1); !math.IsNaN(d) {
		t.Fatalf("expected NaN propagation, got %f", d)
	}
}
