package geo

import "testing"

func TestHaversineKm(t *testing.T) {
	// Jakarta (-6.2, 106.816) to Bandung (-6.9175, 107.6191) ~ 115-120 km
	d := HaversineKm(-6.2, 106.816, -6.9175, 107.6191)
	if d < 100 || d > 140 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestSnapToGrid(t *testing.T) {
	cases := []struct {
		coord, cell, want float64
	}{
		{10.00, 0.1, 10.0},
		{10.049, 0.1, 10.0},
		{10.06, 0.1, 10.1},
		{-6.21, 0.05, -6.2},
		{20.00, 0.1, 20.0},
	}
	for _, tc := range cases {
		if got := SnapToGrid(tc.coord, tc.cell); got != tc.want {
			t.Fatalf("SnapToGrid(%v, %v) = %v, want %v", tc.coord, tc.cell, got, tc.want)
		}
	}
}

func TestSnapToGridBoundaryPair(t *testing.T) {
	// points straddling a cell boundary land in different cells
	if SnapToGrid(10.049, 0.1) == SnapToGrid(10.06, 0.1) {
		t.Fatalf("expected different cells across boundary")
	}
	if SnapToGrid(10.00, 0.1) != SnapToGrid(10.049, 0.1) {
		t.Fatalf("expected same cell within half a cell size")
	}
}
