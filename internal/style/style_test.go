// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Empty(t *testing.T) {
	st, err := Parse("  \n")
	require.NoError(t, err)
	assert.Equal(t, Default(), st)
}

func TestParse_BuiltinStylesheet(t *testing.T) {
	src := `@page { margin: 4mm; }
body {
  font-family: Helvetica, Arial, sans-serif;
  font-size: 11pt;
  line-height: 1.3;
  color: #111111;
  text-align: center;
}`

	st, err := Parse(src)
	require.NoError(t, err)

	assert.Equal(t, "Helvetica", st.FontFamily)
	assert.Equal(t, "", st.FontStyle)
	assert.InDelta(t, 11, st.FontSize, 1e-9)
	assert.InDelta(t, 1.3, st.LineHeight, 1e-9)
	assert.Equal(t, [3]int{17, 17, 17}, st.Color)
	assert.Equal(t, "C", st.Align)
	assert.Equal(t, Box{Top: 4, Right: 4, Bottom: 4, Left: 4}, st.Margin)
}

func TestParse_Declarations(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, st Style)
	}{
		{
			name: "courier family",
			src:  `.label { font-family: "Courier New", monospace; }`,
			check: func(t *testing.T, st Style) {
				assert.Equal(t, "Courier", st.FontFamily)
			},
		},
		{
			name: "serif family",
			src:  `* { font-family: 'Times New Roman'; }`,
			check: func(t *testing.T, st Style) {
				assert.Equal(t, "Times", st.FontFamily)
			},
		},
		{
			name: "bold and italic",
			src:  `body { font-weight: 700; font-style: italic; }`,
			check: func(t *testing.T, st Style) {
				assert.Equal(t, "BI", st.FontStyle)
			},
		},
		{
			name: "weight reset",
			src:  `body { font-weight: bold; } html { font-weight: normal; }`,
			check: func(t *testing.T, st Style) {
				assert.Equal(t, "", st.FontStyle)
			},
		},
		{
			name: "relative font size",
			src:  `body { font-size: 150%; }`,
			check: func(t *testing.T, st Style) {
				assert.InDelta(t, 15, st.FontSize, 1e-9)
			},
		},
		{
			name: "em font size",
			src:  `body { font-size: 2em; }`,
			check: func(t *testing.T, st Style) {
				assert.InDelta(t, 20, st.FontSize, 1e-9)
			},
		},
		{
			name: "pixel font size",
			src:  `body { font-size: 16px; }`,
			check: func(t *testing.T, st Style) {
				assert.InDelta(t, 12, st.FontSize, 1e-9)
			},
		},
		{
			name: "line height as length",
			src:  `body { font-size: 10pt; line-height: 15pt; }`,
			check: func(t *testing.T, st Style) {
				assert.InDelta(t, 1.5, st.LineHeight, 1e-9)
			},
		},
		{
			name: "named color",
			src:  `body { color: Red; }`,
			check: func(t *testing.T, st Style) {
				assert.Equal(t, [3]int{255, 0, 0}, st.Color)
			},
		},
		{
			name: "short hex color",
			src:  `body { color: #00f; }`,
			check: func(t *testing.T, st Style) {
				assert.Equal(t, [3]int{0, 0, 255}, st.Color)
			},
		},
		{
			name: "right alignment",
			src:  `body { text-align: right; }`,
			check: func(t *testing.T, st Style) {
				assert.Equal(t, "R", st.Align)
			},
		},
		{
			name: "two value margin",
			src:  `@page { margin: 2mm 1cm; }`,
			check: func(t *testing.T, st Style) {
				assert.Equal(t, Box{Top: 2, Right: 10, Bottom: 2, Left: 10}, st.Margin)
			},
		},
		{
			name: "three value margin",
			src:  `body { padding: 1mm 0 3mm; }`,
			check: func(t *testing.T, st Style) {
				assert.Equal(t, Box{Top: 1, Right: 0, Bottom: 3, Left: 0}, st.Margin)
			},
		},
		{
			name: "unrelated selectors ignored",
			src:  `h1 { color: red; font-size: 40pt; } p.note { text-align: right; }`,
			check: func(t *testing.T, st Style) {
				assert.Equal(t, Default(), st)
			},
		},
		{
			name: "unknown properties ignored",
			src:  `body { border: 1px solid black; }`,
			check: func(t *testing.T, st Style) {
				assert.Equal(t, Default(), st)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Parse(tt.src)
			require.NoError(t, err)
			tt.check(t, st)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "bad length", src: `@page { margin: wide; }`, wantErr: "margin"},
		{name: "negative length", src: `body { margin: -1mm; }`, wantErr: "negative"},
		{name: "too many margins", src: `body { margin: 1mm 1mm 1mm 1mm 1mm; }`, wantErr: "1 to 4"},
		{name: "bad color", src: `body { color: chartreuse-ish; }`, wantErr: "unsupported color"},
		{name: "bad alignment", src: `body { text-align: middle; }`, wantErr: "unsupported alignment"},
		{name: "zero font size", src: `body { font-size: 0; }`, wantErr: "font size"},
		{name: "bad line height", src: `body { line-height: -2; }`, wantErr: "line height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStyle)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLineHeightMM(t *testing.T) {
	st := Style{FontSize: 72, LineHeight: 1}
	assert.InDelta(t, 25.4, st.LineHeightMM(), 1e-9)
}
