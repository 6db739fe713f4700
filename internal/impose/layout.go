// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package impose

import (
	"errors"
	"fmt"
	"math"
)

// ErrImposition indicates the labels could not be placed onto sheets.
var ErrImposition = errors.New("failed to impose labels")

// epsilon absorbs rounding when a page fits a sheet exactly.
const epsilon = 1e-9

// Mark is a cut-mark segment belonging to one cell of a grid.
type Mark struct {
	Cell int
	Segment
}

// Grid is the placement plan for one sheet.
type Grid struct {
	Sheet Size
	Cells []Rect // row-major
	Marks []Mark
}

// PerSheet returns the number of pages one sheet holds.
func (g Grid) PerSheet() int {
	return len(g.Cells)
}

// MarksFor returns the segments drawn around the first used cells.
func (g Grid) MarksFor(used int) []Segment {
	var out []Segment
	for _, m := range g.Marks {
		if m.Cell < used {
			out = append(out, m.Segment)
		}
	}
	return out
}

// Layout plans how pages are arranged on a sheet.
type Layout interface {
	Plan() (Grid, error)
}

// AutoGrid fits as many pages as possible on a sheet. Each page keeps a
// band of the spacing around it and the sheet keeps a border of the same
// width, so pages are 2*spacing apart from each other and from the edges.
type AutoGrid struct {
	Page     Size
	Sheet    Size
	SpacingX float64
	SpacingY float64
	Centered bool
}

// NewAutoGrid returns a grid with the same spacing on both axes.
func NewAutoGrid(page, sheet Size, spacing float64, centered bool) *AutoGrid {
	return &AutoGrid{Page: page, Sheet: sheet, SpacingX: spacing, SpacingY: spacing, Centered: centered}
}

// Plan computes the cell rectangles.
func (a *AutoGrid) Plan() (Grid, error) {
	if a.Page.W <= 0 || a.Page.H <= 0 {
		return Grid{}, fmt.Errorf("%w: invalid page size %s", ErrImposition, a.Page)
	}
	if a.Sheet.W <= 0 || a.Sheet.H <= 0 {
		return Grid{}, fmt.Errorf("%w: invalid sheet size %s", ErrImposition, a.Sheet)
	}
	if a.SpacingX < 0 || a.SpacingY < 0 {
		return Grid{}, fmt.Errorf("%w: spacing cannot be negative", ErrImposition)
	}

	cols := fit(a.Sheet.W, a.Page.W, a.SpacingX)
	rows := fit(a.Sheet.H, a.Page.H, a.SpacingY)
	if cols == 0 || rows == 0 {
		return Grid{}, fmt.Errorf("%w: page %s does not fit on sheet %s with spacing %g",
			ErrImposition, a.Page, a.Sheet, math.Max(a.SpacingX, a.SpacingY))
	}

	pitchX := a.Page.W + 2*a.SpacingX
	pitchY := a.Page.H + 2*a.SpacingY
	x0, y0 := 2*a.SpacingX, 2*a.SpacingY
	if a.Centered {
		x0 = (a.Sheet.W-float64(cols)*pitchX)/2 + a.SpacingX
		y0 = (a.Sheet.H-float64(rows)*pitchY)/2 + a.SpacingY
	}

	grid := Grid{Sheet: a.Sheet, Cells: make([]Rect, 0, cols*rows)}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			grid.Cells = append(grid.Cells, Rect{
				X: x0 + float64(c)*pitchX,
				Y: y0 + float64(r)*pitchY,
				W: a.Page.W,
				H: a.Page.H,
			})
		}
	}
	return grid, nil
}

func fit(sheet, page, spacing float64) int {
	n := math.Floor((sheet-2*spacing)/(page+2*spacing) + epsilon)
	if n < 0 {
		return 0
	}
	return int(n)
}

// OutsideBoxCutMarks decorates a layout with cut marks at every cell
// corner, continuing each edge outwards.
type OutsideBoxCutMarks struct {
	Layout Layout
	Gap    float64 // distance between the page corner and the mark
	Length float64 // mark length
}

// NewOutsideBoxCutMarks returns marks filling the spacing band: a gap of a
// fifth of the spacing followed by the rest of it.
func NewOutsideBoxCutMarks(l Layout, spacing float64) *OutsideBoxCutMarks {
	return &OutsideBoxCutMarks{Layout: l, Gap: spacing / 5, Length: spacing * 4 / 5}
}

// Plan plans the wrapped layout and adds eight segments per cell.
func (o *OutsideBoxCutMarks) Plan() (Grid, error) {
	grid, err := o.Layout.Plan()
	if err != nil {
		return grid, err
	}
	if o.Length <= 0 {
		return grid, nil
	}

	g, l := o.Gap, o.Length
	for i, c := range grid.Cells {
		x1, y1, x2, y2 := c.X, c.Y, c.Right(), c.Bottom()
		for _, s := range []Segment{
			// top-left
			{x1 - g - l, y1, x1 - g, y1},
			{x1, y1 - g - l, x1, y1 - g},
			// top-right
			{x2 + g, y1, x2 + g + l, y1},
			{x2, y1 - g - l, x2, y1 - g},
			// bottom-left
			{x1 - g - l, y2, x1 - g, y2},
			{x1, y2 + g, x1, y2 + g + l},
			// bottom-right
			{x2 + g, y2, x2 + g + l, y2},
			{x2, y2 + g, x2, y2 + g + l},
		} {
			grid.Marks = append(grid.Marks, Mark{Cell: i, Segment: clip(s, grid.Sheet)})
		}
	}
	return grid, nil
}

// clip keeps a horizontal or vertical segment within the sheet.
func clip(s Segment, sheet Size) Segment {
	s.X1 = math.Min(math.Max(s.X1, 0), sheet.W)
	s.X2 = math.Min(math.Max(s.X2, 0), sheet.W)
	s.Y1 = math.Min(math.Max(s.Y1, 0), sheet.H)
	s.Y2 = math.Min(math.Max(s.Y2, 0), sheet.H)
	return s
}
