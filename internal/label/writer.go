// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package label

import (
	"html"

	"github.com/go-pdf/fpdf"
)

// segments tokenizes normalized markup and decodes character references in
// text runs and link targets. Decoding happens after tokenizing so an
// escaped "<" is printed instead of being read as a tag.
func segments(markup string) []fpdf.HTMLBasicSegmentType {
	list := fpdf.HTMLBasicTokenize(markup)
	for i := range list {
		switch list[i].Cat {
		case 'T':
			list[i].Str = html.UnescapeString(list[i].Str)
		case 'O':
			if href, ok := list[i].Attr["href"]; ok {
				list[i].Attr["href"] = html.UnescapeString(href)
			}
		}
	}
	return list
}

// markupWriter lays segments out from the current position with the tag
// semantics of fpdf's basic HTML writer.
type markupWriter struct {
	pdf    *fpdf.Fpdf
	lineHt float64

	bold, italic, underline int
	align                   string
	href                    string

	// bottom is the lowest edge of text written so far.
	bottom float64
}

func newMarkupWriter(pdf *fpdf.Fpdf, lineHt float64) *markupWriter {
	return &markupWriter{pdf: pdf, lineHt: lineHt, align: "L"}
}

func (w *markupWriter) setStyle(bold, italic, underline int) {
	w.bold += bold
	w.italic += italic
	w.underline += underline
	st := ""
	if w.bold > 0 {
		st += "B"
	}
	if w.italic > 0 {
		st += "I"
	}
	if w.underline > 0 {
		st += "U"
	}
	w.pdf.SetFont("", st, 0)
}

func (w *markupWriter) text(s string) {
	defer func() {
		if y := w.pdf.GetY() + w.lineHt; y > w.bottom {
			w.bottom = y
		}
	}()
	if w.href != "" {
		r, g, b := w.pdf.GetTextColor()
		w.pdf.SetTextColor(0, 0, 128)
		w.setStyle(0, 0, 1)
		w.pdf.WriteLinkString(w.lineHt, s, w.href)
		w.setStyle(0, 0, -1)
		w.pdf.SetTextColor(r, g, b)
		w.href = ""
		return
	}
	if w.align == "C" || w.align == "R" {
		w.pdf.WriteAligned(0, w.lineHt, s, w.align)
		return
	}
	w.pdf.Write(w.lineHt, s)
}

// Write lays out segs.
func (w *markupWriter) Write(segs []fpdf.HTMLBasicSegmentType) {
	for _, el := range segs {
		switch el.Cat {
		case 'T':
			w.text(el.Str)
		case 'O':
			switch el.Str {
			case "b":
				w.setStyle(1, 0, 0)
			case "i":
				w.setStyle(0, 1, 0)
			case "u":
				w.setStyle(0, 0, 1)
			case "br":
				w.pdf.Ln(w.lineHt)
			case "center":
				w.pdf.Ln(w.lineHt)
				w.align = "C"
			case "right":
				w.pdf.Ln(w.lineHt)
				w.align = "R"
			case "left":
				w.pdf.Ln(w.lineHt)
				w.align = "L"
			case "a":
				w.href = el.Attr["href"]
			}
		case 'C':
			switch el.Str {
			case "b":
				w.setStyle(-1, 0, 0)
			case "i":
				w.setStyle(0, -1, 0)
			case "u":
				w.setStyle(0, 0, -1)
			case "center", "right":
				w.pdf.Ln(w.lineHt)
				w.align = "L"
			}
		}
	}
}
