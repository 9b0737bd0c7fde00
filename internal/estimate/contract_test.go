package estimate

import (
	"math"
	"testing"

	"github.com/catonlyprep/stochsim/internal/stochastic"
)

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		ok   bool
	}{
		{"valid", Request{Bandwidth: 0.1, Bins: []int{32}, Powers: [][]int{{0}, {1}, {2}}}, true},
		{"valid 2d", Request{Bandwidth: 0.1, Bins: []int{16, 16}, Powers: [][]int{{0, 0}, {1, 0}, {0, 1}}}, true},
		{"zero bandwidth", Request{Bandwidth: 0, Bins: []int{32}, Powers: [][]int{{0}}}, false},
		{"no bins", Request{Bandwidth: 0.1, Powers: [][]int{{0}}}, false},
		{"bad bin count", Request{Bandwidth: 0.1, Bins: []int{0}, Powers: [][]int{{0}}}, false},
		{"missing occupation", Request{Bandwidth: 0.1, Bins: []int{32}, Powers: [][]int{{1}, {2}}}, false},
		{"power length", Request{Bandwidth: 0.1, Bins: []int{32}, Powers: [][]int{{0, 0}}}, false},
		{"negative power", Request{Bandwidth: 0.1, Bins: []int{32}, Powers: [][]int{{0}, {-1}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	s := &Surfaces{
		Bins:  []int{2},
		Edges: [][]float64{{0, 0.5, 1}},
		Surfaces: []Surface{
			{Power: []int{0}, Values: []float64{10, 20}},
			{Power: []int{1}, Values: []float64{0.4, 0.8}},
		},
	}

	if err := Normalize(s, 0.1); err != nil {
		t.Fatal(err)
	}

	// Occupation counts stay raw; moments become per-unit-time coefficients.
	if s.Surfaces[0].Values[0] != 10 {
		t.Errorf("occupation surface was scaled: %v", s.Surfaces[0].Values)
	}
	if math.Abs(s.Surfaces[1].Values[0]-4.0) > 1e-12 {
		t.Errorf("moment surface = %v, want [4 8]", s.Surfaces[1].Values)
	}

	if err := Normalize(s, 0); err == nil {
		t.Error("expected error for dt = 0")
	}
}

func TestTrimEdges_1D(t *testing.T) {
	s := &Surfaces{
		Bins:  []int{5},
		Edges: [][]float64{{0, 1, 2, 3, 4, 5}},
		Surfaces: []Surface{
			{Power: []int{1}, Values: []float64{10, 11, 12, 13, 14}},
		},
	}

	out, err := TrimEdges(s, 1)
	if err != nil {
		t.Fatal(err)
	}

	if out.Bins[0] != 3 {
		t.Fatalf("bins = %v, want [3]", out.Bins)
	}
	wantVals := []float64{11, 12, 13}
	for i, v := range out.Surfaces[0].Values {
		if v != wantVals[i] {
			t.Fatalf("values = %v, want %v", out.Surfaces[0].Values, wantVals)
		}
	}
	wantEdges := []float64{1, 2, 3, 4}
	for i, e := range out.Edges[0] {
		if e != wantEdges[i] {
			t.Fatalf("edges = %v, want %v", out.Edges[0], wantEdges)
		}
	}
}

func TestTrimEdges_2D(t *testing.T) {
	// 4x4 grid, row-major values 0..15; margin 1 keeps the central 2x2.
	vals := make([]float64, 16)
	for i := range vals {
		vals[i] = float64(i)
	}

	s := &Surfaces{
		Bins:  []int{4, 4},
		Edges: [][]float64{{0, 1, 2, 3, 4}, {0, 1, 2, 3, 4}},
		Surfaces: []Surface{
			{Power: []int{0, 0}, Values: vals},
		},
	}

	out, err := TrimEdges(s, 1)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{5, 6, 9, 10}
	for i, v := range out.Surfaces[0].Values {
		if v != want[i] {
			t.Fatalf("values = %v, want %v", out.Surfaces[0].Values, want)
		}
	}
}

func TestTrimEdges_MarginTooLarge(t *testing.T) {
	s := &Surfaces{
		Bins:     []int{3},
		Edges:    [][]float64{{0, 1, 2, 3}},
		Surfaces: []Surface{{Power: []int{0}, Values: []float64{1, 2, 3}}},
	}
	if _, err := TrimEdges(s, 2); err == nil {
		t.Error("expected error when margin consumes the grid")
	}
}

// stubEstimator pins down the call contract shape.
type stubEstimator struct{}

func (stubEstimator) Estimate(states []stochastic.State, req Request) (*Surfaces, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cells := 1
	for _, b := range req.Bins {
		cells *= b
	}
	out := &Surfaces{Bins: req.Bins, Edges: make([][]float64, len(req.Bins))}
	for _, p := range req.Powers {
		out.Surfaces = append(out.Surfaces, Surface{Power: p, Values: make([]float64, cells)})
	}
	return out, nil
}

func TestEstimatorContract(t *testing.T) {
	var est Estimator = stubEstimator{}

	req := Request{Bandwidth: 0.05, Bins: []int{8}, Powers: [][]int{{0}, {1}, {2}}}
	out, err := est.Estimate([]stochastic.State{{0.1}, {0.2}}, req)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Surfaces) != 3 {
		t.Errorf("got %d surfaces, want one per power", len(out.Surfaces))
	}
	if !out.Surfaces[0].IsOccupation() {
		t.Error("first surface should be the occupation count")
	}
}
