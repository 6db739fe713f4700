// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package label

import (
	"fmt"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// face is an embedded UTF-8 font family in its four styles.
type face struct {
	family string
	styles map[string][]byte // "", "B", "I", "BI"
}

var (
	sansFace = face{family: "go", styles: map[string][]byte{
		"":   goregular.TTF,
		"B":  gobold.TTF,
		"I":  goitalic.TTF,
		"BI": gobolditalic.TTF,
	}}
	monoFace = face{family: "gomono", styles: map[string][]byte{
		"":   gomono.TTF,
		"B":  gomonobold.TTF,
		"I":  gomonoitalic.TTF,
		"BI": gomonobolditalic.TTF,
	}}
)

// faceFor maps a stylesheet family to an embedded face. Courier gets the
// monospaced face, everything else the proportional one.
func faceFor(family string) face {
	if family == "Courier" {
		return monoFace
	}
	return sansFace
}

func (f face) register(pdf *fpdf.Fpdf) {
	for _, st := range []string{"", "B", "I", "BI"} {
		pdf.AddUTF8FontFromBytes(f.family, st, f.styles[st])
	}
}

// coverage reports which runes a face can draw.
type coverage struct {
	font *sfnt.Font
	buf  sfnt.Buffer
}

func newCoverage(f face) (*coverage, error) {
	font, err := sfnt.Parse(f.styles[""])
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", f.family, err)
	}
	return &coverage{font: font}, nil
}

// missing returns the first rune of text without a glyph.
func (c *coverage) missing(text string) (rune, bool) {
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			continue
		}
		idx, err := c.font.GlyphIndex(&c.buf, r)
		if err != nil || idx == 0 {
			return r, true
		}
	}
	return 0, false
}
