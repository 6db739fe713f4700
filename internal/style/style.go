// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package style turns the shared label stylesheet into page settings.
//
// Only the subset of CSS that maps onto a single text block is honoured:
// font family, size, weight and style, colour, alignment, line height and
// the page margin. Declarations are read from @page, html, body, * and
// .label rules, later rules overriding earlier ones.
package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrStyle indicates the stylesheet could not be parsed.
var ErrStyle = errors.New("invalid stylesheet")

const (
	mmPerPt = 25.4 / 72
	mmPerPx = 25.4 / 96
)

// Box holds the four sides of a margin, in millimetres.
type Box struct {
	Top, Right, Bottom, Left float64
}

// Style is the text setup applied to every label page.
type Style struct {
	FontFamily string  // core PDF font: Helvetica, Times or Courier
	FontStyle  string  // "", "B", "I" or "BI"
	FontSize   float64 // points
	Color      [3]int  // RGB 0-255
	Align      string  // "L", "C" or "R"
	LineHeight float64 // multiple of the font size
	Margin     Box
}

// Default returns the style used when no stylesheet is present.
func Default() Style {
	return Style{
		FontFamily: "Helvetica",
		FontSize:   10,
		Align:      "L",
		LineHeight: 1.2,
		Margin:     Box{Top: 3, Right: 3, Bottom: 3, Left: 3},
	}
}

// LineHeightMM returns the height of one text line in millimetres.
func (s Style) LineHeightMM() float64 {
	return s.FontSize * s.LineHeight * mmPerPt
}

var textSelectors = map[string]bool{"html": true, "body": true, "*": true, ".label": true}

// Parse reads src on top of Default. Unknown properties are ignored;
// unparsable values of known properties are errors.
func Parse(src string) (Style, error) {
	st := Default()
	if strings.TrimSpace(src) == "" {
		return st, nil
	}

	sheet, err := parser.Parse(src)
	if err != nil {
		return st, fmt.Errorf("%w: %v", ErrStyle, err)
	}

	for _, rule := range sheet.Rules {
		switch {
		case rule.Kind == css.AtRule && strings.TrimPrefix(rule.Name, "@") == "page":
			for _, decl := range rule.Declarations {
				if err := st.applyPage(decl); err != nil {
					return st, err
				}
			}
		case rule.Kind == css.QualifiedRule && selectsText(rule.Selectors):
			for _, decl := range rule.Declarations {
				if err := st.apply(decl); err != nil {
					return st, err
				}
			}
		}
	}
	return st, nil
}

func selectsText(selectors []string) bool {
	for _, sel := range selectors {
		if textSelectors[strings.TrimSpace(sel)] {
			return true
		}
	}
	return false
}

func (s *Style) applyPage(decl *css.Declaration) error {
	switch strings.ToLower(decl.Property) {
	case "margin", "padding":
		box, err := parseBox(decl.Value)
		if err != nil {
			return declError(decl, err)
		}
		s.Margin = box
	}
	return nil
}

func (s *Style) apply(decl *css.Declaration) error {
	value := strings.TrimSpace(decl.Value)
	var err error

	switch strings.ToLower(decl.Property) {
	case "font-family":
		s.FontFamily = fontFamily(value)
	case "font-size":
		s.FontSize, err = parsePoints(value, s.FontSize)
	case "font-weight":
		s.FontStyle = withFlag(s.FontStyle, "B", value == "bold" || value == "bolder" || numericWeight(value) >= 600)
	case "font-style":
		s.FontStyle = withFlag(s.FontStyle, "I", value == "italic" || value == "oblique")
	case "color":
		s.Color, err = parseColor(value)
	case "text-align":
		s.Align, err = parseAlign(value)
	case "line-height":
		s.LineHeight, err = parseLineHeight(value, s.FontSize)
	case "margin", "padding":
		s.Margin, err = parseBox(value)
	}

	if err != nil {
		return declError(decl, err)
	}
	return nil
}

func declError(decl *css.Declaration, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStyle, decl.Property, err)
}

func fontFamily(value string) string {
	first, _, _ := strings.Cut(value, ",")
	name := strings.ToLower(strings.Trim(strings.TrimSpace(first), `"'`))
	switch {
	case strings.Contains(name, "courier"), strings.Contains(name, "mono"):
		return "Courier"
	case strings.Contains(name, "times"), name == "serif", strings.Contains(name, "georgia"):
		return "Times"
	default:
		return "Helvetica"
	}
}

func withFlag(styleStr, flag string, on bool) string {
	b := strings.Contains(styleStr, "B")
	i := strings.Contains(styleStr, "I")
	switch flag {
	case "B":
		b = on
	case "I":
		i = on
	}
	out := ""
	if b {
		out += "B"
	}
	if i {
		out += "I"
	}
	return out
}

func numericWeight(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

// parseLength converts a CSS length to millimetres. Unitless zero is allowed.
func parseLength(value string) (float64, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	units := []struct {
		suffix string
		factor float64
	}{
		{"mm", 1}, {"cm", 10}, {"in", 25.4}, {"pt", mmPerPt}, {"px", mmPerPx},
	}
	for _, u := range units {
		if num, ok := strings.CutSuffix(value, u.suffix); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid length %q", value)
			}
			if f < 0 {
				return 0, fmt.Errorf("negative length %q", value)
			}
			return f * u.factor, nil
		}
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && f == 0 {
		return 0, nil
	}
	return 0, fmt.Errorf("invalid length %q", value)
}

// parsePoints converts a font size to points. Percentages and em are
// relative to current.
func parsePoints(value string, current float64) (float64, error) {
	value = strings.ToLower(value)
	if num, ok := strings.CutSuffix(value, "%"); ok {
		f, err := strconv.ParseFloat(num, 64)
		if err != nil || f <= 0 {
			return 0, fmt.Errorf("invalid size %q", value)
		}
		return current * f / 100, nil
	}
	if num, ok := strings.CutSuffix(value, "em"); ok {
		f, err := strconv.ParseFloat(num, 64)
		if err != nil || f <= 0 {
			return 0, fmt.Errorf("invalid size %q", value)
		}
		return current * f, nil
	}
	mm, err := parseLength(value)
	if err != nil {
		return 0, err
	}
	if mm == 0 {
		return 0, fmt.Errorf("font size must be positive")
	}
	return mm / mmPerPt, nil
}

func parseLineHeight(value string, fontSize float64) (float64, error) {
	if value == "normal" {
		return Default().LineHeight, nil
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		if f <= 0 {
			return 0, fmt.Errorf("invalid line height %q", value)
		}
		return f, nil
	}
	pts, err := parsePoints(value, fontSize)
	if err != nil {
		return 0, err
	}
	return pts / fontSize, nil
}

func parseBox(value string) (Box, error) {
	parts := strings.Fields(value)
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := parseLength(p)
		if err != nil {
			return Box{}, err
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return Box{vals[0], vals[0], vals[0], vals[0]}, nil
	case 2:
		return Box{vals[0], vals[1], vals[0], vals[1]}, nil
	case 3:
		return Box{vals[0], vals[1], vals[2], vals[1]}, nil
	case 4:
		return Box{vals[0], vals[1], vals[2], vals[3]}, nil
	default:
		return Box{}, fmt.Errorf("expected 1 to 4 values, got %q", value)
	}
}

var namedColors = map[string]string{
	"black": "#000000",
	"white": "#ffffff",
	"gray":  "#808080",
	"grey":  "#808080",
	"red":   "#ff0000",
	"green": "#008000",
	"blue":  "#0000ff",
}

func parseColor(value string) ([3]int, error) {
	hex := strings.ToLower(value)
	if named, ok := namedColors[hex]; ok {
		hex = named
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return [3]int{}, fmt.Errorf("unsupported color %q", value)
	}
	r, g, b := c.RGB255()
	return [3]int{int(r), int(g), int(b)}, nil
}

func parseAlign(value string) (string, error) {
	switch strings.ToLower(value) {
	case "left", "start", "justify":
		return "L", nil
	case "center":
		return "C", nil
	case "right", "end":
		return "R", nil
	default:
		return "", fmt.Errorf("unsupported alignment %q", value)
	}
}
