// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package impose

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a width and height in millimetres.
type Size struct {
	W, H float64
}

// String formats the size as WxH.
func (s Size) String() string {
	return strconv.FormatFloat(s.W, 'f', -1, 64) + "x" + strconv.FormatFloat(s.H, 'f', -1, 64)
}

// Rect is a box with its top-left corner at X, Y.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Segment is a straight line between two points.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

var namedSizes = map[string]Size{
	"a3":     {W: 297, H: 420},
	"a4":     {W: 210, H: 297},
	"a5":     {W: 148, H: 210},
	"letter": {W: 215.9, H: 279.4},
	"legal":  {W: 215.9, H: 355.6},
}

// ParseSize reads a named paper size (a3, a4, a5, letter, legal, with an
// optional "-landscape" suffix) or an explicit "WxH" in millimetres.
func ParseSize(value string) (Size, error) {
	v := strings.ToLower(strings.TrimSpace(value))

	name, landscape := strings.CutSuffix(v, "-landscape")
	if s, ok := namedSizes[name]; ok {
		if landscape {
			s.W, s.H = s.H, s.W
		}
		return s, nil
	}

	w, h, ok := strings.Cut(v, "x")
	if !ok {
		return Size{}, fmt.Errorf("invalid size %q: expected a paper name or WxH", value)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return Size{}, fmt.Errorf("invalid size %q: %w", value, err)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return Size{}, fmt.Errorf("invalid size %q: %w", value, err)
	}
	if width <= 0 || height <= 0 {
		return Size{}, fmt.Errorf("invalid size %q: dimensions must be positive", value)
	}
	return Size{W: width, H: height}, nil
}
