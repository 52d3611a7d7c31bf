package numeric

import (
	"math"
	"testing"
)

func TestCumTrapz(t *testing.T) {
	x := Linspace(0, 2, 201)
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = 3 * xi * xi
	}

	c := CumTrapz(x, y)
	if len(c) != len(x) {
		t.Fatalf("expected %d entries, got %d", len(x), len(c))
	}
	if c[0] != 0 {
		t.Errorf("cumulative integral must start at 0, got %v", c[0])
	}
	if math.Abs(c[len(c)-1]-8) > 1e-3 {
		t.Errorf("integral of 3x^2 on [0,2] = %v, want 8", c[len(c)-1])
	}
	if math.Abs(c[len(c)-1]-Trapz(x, y)) > 1e-12 {
		t.Errorf("cumulative total %v differs from Trapz %v", c[len(c)-1], Trapz(x, y))
	}
	for i := 1; i < len(c); i++ {
		if c[i] < c[i-1] {
			t.Fatalf("cumulative integral of a positive function decreased at %d", i)
		}
	}
}

func TestSpans(t *testing.T) {
	lin := Linspace(0.1, 12.5, 200)
	if len(lin) != 200 || lin[0] != 0.1 || math.Abs(lin[199]-12.5) > 1e-12 {
		t.Errorf("bad linspace ends: %v .. %v", lin[0], lin[len(lin)-1])
	}

	logs := Logspace(0.1, 10, 3)
	want := []float64{0.1, 1, 10}
	for i := range want {
		if math.Abs(logs[i]-want[i]) > 1e-12 {
			t.Errorf("logspace[%d] = %v, want %v", i, logs[i], want[i])
		}
	}

	d := Diff([]float64{1, 4, 9})
	if len(d) != 2 || d[0] != 3 || d[1] != 5 {
		t.Errorf("unexpected diff %v", d)
	}
}
