// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package impose

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestAutoGrid_SpacingReducesCapacity(t *testing.T) {
	page := Size{W: 80, H: 80}
	sheet := Size{W: 300, H: 300}

	tight, err := NewAutoGrid(page, sheet, 0, true).Plan()
	require.NoError(t, err)
	loose, err := NewAutoGrid(page, sheet, 10, true).Plan()
	require.NoError(t, err)

	assert.Equal(t, 9, tight.PerSheet())
	assert.Equal(t, 4, loose.PerSheet())
	assert.Less(t, loose.PerSheet(), tight.PerSheet())
}

func TestAutoGrid_PerSheet(t *testing.T) {
	tests := []struct {
		name    string
		page    Size
		sheet   Size
		spacing float64
		want    int
	}{
		{name: "a4 default", page: Size{W: 80, H: 80}, sheet: Size{W: 210, H: 297}, spacing: 5, want: 6},
		{name: "a4 no spacing", page: Size{W: 80, H: 80}, sheet: Size{W: 210, H: 297}, spacing: 0, want: 6},
		{name: "a3", page: Size{W: 80, H: 80}, sheet: Size{W: 297, H: 420}, spacing: 5, want: 12},
		{name: "exact fit", page: Size{W: 100, H: 100}, sheet: Size{W: 300, H: 100}, spacing: 0, want: 3},
		{name: "exact fit with spacing", page: Size{W: 90, H: 90}, sheet: Size{W: 310, H: 110}, spacing: 5, want: 3},
		{name: "single page", page: Size{W: 200, H: 280}, sheet: Size{W: 210, H: 297}, spacing: 2, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := NewAutoGrid(tt.page, tt.sheet, tt.spacing, false).Plan()
			require.NoError(t, err)
			assert.Equal(t, tt.want, grid.PerSheet())
		})
	}
}

func TestAutoGrid_Placement(t *testing.T) {
	page := Size{W: 80, H: 80}
	sheet := Size{W: 300, H: 300}

	tests := []struct {
		name     string
		spacing  float64
		centered bool
		want     []Rect
	}{
		{
			name:    "anchored",
			spacing: 10,
			want: []Rect{
				{X: 20, Y: 20, W: 80, H: 80}, {X: 120, Y: 20, W: 80, H: 80},
				{X: 20, Y: 120, W: 80, H: 80}, {X: 120, Y: 120, W: 80, H: 80},
			},
		},
		{
			name:     "centered",
			spacing:  10,
			centered: true,
			want: []Rect{
				{X: 60, Y: 60, W: 80, H: 80}, {X: 160, Y: 60, W: 80, H: 80},
				{X: 60, Y: 160, W: 80, H: 80}, {X: 160, Y: 160, W: 80, H: 80},
			},
		},
		{
			name:     "centered without spacing",
			spacing:  0,
			centered: true,
			want: []Rect{
				{X: 30, Y: 30, W: 80, H: 80}, {X: 110, Y: 30, W: 80, H: 80}, {X: 190, Y: 30, W: 80, H: 80},
				{X: 30, Y: 110, W: 80, H: 80}, {X: 110, Y: 110, W: 80, H: 80}, {X: 190, Y: 110, W: 80, H: 80},
				{X: 30, Y: 190, W: 80, H: 80}, {X: 110, Y: 190, W: 80, H: 80}, {X: 190, Y: 190, W: 80, H: 80},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := NewAutoGrid(page, sheet, tt.spacing, tt.centered).Plan()
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, grid.Cells, approx); diff != "" {
				t.Errorf("cells mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAutoGrid_SeparateAxes(t *testing.T) {
	grid, err := (&AutoGrid{
		Page:     Size{W: 80, H: 80},
		Sheet:    Size{W: 300, H: 300},
		SpacingX: 0,
		SpacingY: 10,
	}).Plan()
	require.NoError(t, err)
	assert.Equal(t, 6, grid.PerSheet())
}

func TestAutoGrid_CellsStayOnSheet(t *testing.T) {
	page := Size{W: 63, H: 38}
	for _, sheet := range []Size{{W: 210, H: 297}, {W: 297, H: 210}, {W: 215.9, H: 279.4}} {
		for _, spacing := range []float64{0, 1.5, 5, 12} {
			for _, centered := range []bool{false, true} {
				grid, err := NewAutoGrid(page, sheet, spacing, centered).Plan()
				require.NoError(t, err)
				for _, c := range grid.Cells {
					assert.GreaterOrEqual(t, c.X, spacing)
					assert.GreaterOrEqual(t, c.Y, spacing)
					assert.LessOrEqual(t, c.Right(), sheet.W-spacing+1e-9)
					assert.LessOrEqual(t, c.Bottom(), sheet.H-spacing+1e-9)
				}
			}
		}
	}
}

func TestAutoGrid_Errors(t *testing.T) {
	tests := []struct {
		name    string
		grid    *AutoGrid
		wantErr string
	}{
		{name: "page too large", grid: NewAutoGrid(Size{W: 250, H: 80}, Size{W: 210, H: 297}, 0, false), wantErr: "does not fit"},
		{name: "spacing too large", grid: NewAutoGrid(Size{W: 200, H: 80}, Size{W: 210, H: 297}, 5, false), wantErr: "does not fit"},
		{name: "zero page", grid: NewAutoGrid(Size{}, Size{W: 210, H: 297}, 5, false), wantErr: "invalid page size"},
		{name: "zero sheet", grid: NewAutoGrid(Size{W: 80, H: 80}, Size{}, 5, false), wantErr: "invalid sheet size"},
		{name: "negative spacing", grid: NewAutoGrid(Size{W: 80, H: 80}, Size{W: 210, H: 297}, -1, false), wantErr: "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.grid.Plan()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrImposition)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOutsideBoxCutMarks(t *testing.T) {
	base := NewAutoGrid(Size{W: 80, H: 80}, Size{W: 300, H: 300}, 10, false)
	grid, err := NewOutsideBoxCutMarks(base, 10).Plan()
	require.NoError(t, err)

	require.Len(t, grid.Marks, 8*grid.PerSheet())

	first := grid.Marks[:8]
	want := []Mark{
		{Cell: 0, Segment: Segment{X1: 10, Y1: 20, X2: 18, Y2: 20}},
		{Cell: 0, Segment: Segment{X1: 20, Y1: 10, X2: 20, Y2: 18}},
		{Cell: 0, Segment: Segment{X1: 102, Y1: 20, X2: 110, Y2: 20}},
		{Cell: 0, Segment: Segment{X1: 100, Y1: 10, X2: 100, Y2: 18}},
		{Cell: 0, Segment: Segment{X1: 10, Y1: 100, X2: 18, Y2: 100}},
		{Cell: 0, Segment: Segment{X1: 20, Y1: 102, X2: 20, Y2: 110}},
		{Cell: 0, Segment: Segment{X1: 102, Y1: 100, X2: 110, Y2: 100}},
		{Cell: 0, Segment: Segment{X1: 100, Y1: 102, X2: 100, Y2: 110}},
	}
	if diff := cmp.Diff(want, first, approx); diff != "" {
		t.Errorf("marks mismatch (-want +got):\n%s", diff)
	}

	for _, m := range grid.Marks {
		for _, c := range grid.Cells {
			assert.False(t, crossesInterior(m.Segment, c), "mark %+v crosses cell %+v", m, c)
		}
		assert.GreaterOrEqual(t, minF(m.X1, m.X2), 0.0)
		assert.LessOrEqual(t, maxF(m.X1, m.X2), grid.Sheet.W)
	}
}

func TestOutsideBoxCutMarks_ZeroLength(t *testing.T) {
	base := NewAutoGrid(Size{W: 80, H: 80}, Size{W: 300, H: 300}, 0, true)
	grid, err := NewOutsideBoxCutMarks(base, 0).Plan()
	require.NoError(t, err)
	assert.Empty(t, grid.Marks)
	assert.Equal(t, 9, grid.PerSheet())
}

func TestOutsideBoxCutMarks_ClippedToSheet(t *testing.T) {
	base := NewAutoGrid(Size{W: 80, H: 80}, Size{W: 300, H: 300}, 0, false)
	grid, err := (&OutsideBoxCutMarks{Layout: base, Gap: 1, Length: 5}).Plan()
	require.NoError(t, err)

	for _, m := range grid.Marks {
		assert.GreaterOrEqual(t, minF(m.X1, m.X2), 0.0)
		assert.GreaterOrEqual(t, minF(m.Y1, m.Y2), 0.0)
		assert.LessOrEqual(t, maxF(m.X1, m.X2), 300.0)
		assert.LessOrEqual(t, maxF(m.Y1, m.Y2), 300.0)
	}
}

func TestOutsideBoxCutMarks_PropagatesError(t *testing.T) {
	base := NewAutoGrid(Size{W: 400, H: 80}, Size{W: 300, H: 300}, 0, false)
	_, err := NewOutsideBoxCutMarks(base, 5).Plan()
	assert.ErrorIs(t, err, ErrImposition)
}

func TestGrid_MarksFor(t *testing.T) {
	base := NewAutoGrid(Size{W: 80, H: 80}, Size{W: 210, H: 297}, 5, false)
	grid, err := NewOutsideBoxCutMarks(base, 5).Plan()
	require.NoError(t, err)

	assert.Len(t, grid.MarksFor(grid.PerSheet()), 8*grid.PerSheet())
	assert.Len(t, grid.MarksFor(1), 8)
	assert.Empty(t, grid.MarksFor(0))
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    Size
		wantErr bool
	}{
		{in: "a4", want: Size{W: 210, H: 297}},
		{in: " A3 ", want: Size{W: 297, H: 420}},
		{in: "a4-landscape", want: Size{W: 297, H: 210}},
		{in: "letter", want: Size{W: 215.9, H: 279.4}},
		{in: "80x80", want: Size{W: 80, H: 80}},
		{in: "100.5 x 50", want: Size{W: 100.5, H: 50}},
		{in: "b5", wantErr: true},
		{in: "80x", wantErr: true},
		{in: "0x80", wantErr: true},
		{in: "-5x80", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSize_String(t *testing.T) {
	assert.Equal(t, "215.9x279.4", Size{W: 215.9, H: 279.4}.String())
}

// crossesInterior reports whether an axis-aligned segment passes through the
// open interior of r.
func crossesInterior(s Segment, r Rect) bool {
	const e = 1e-9
	if s.Y1 == s.Y2 {
		if s.Y1 <= r.Y+e || s.Y1 >= r.Bottom()-e {
			return false
		}
		return maxF(s.X1, s.X2) > r.X+e && minF(s.X1, s.X2) < r.Right()-e
	}
	if s.X1 <= r.X+e || s.X1 >= r.Right()-e {
		return false
	}
	return maxF(s.Y1, s.Y2) > r.Y+e && minF(s.Y1, s.Y2) < r.Bottom()-e
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
