// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package label renders rows into a PDF with one fixed-size page per row.
package label

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/kduma-archive/brief-generator-cli/internal/ctxlog"
	"github.com/kduma-archive/brief-generator-cli/internal/layout"
	"github.com/kduma-archive/brief-generator-cli/internal/output"
	"github.com/kduma-archive/brief-generator-cli/internal/rows"
	"github.com/kduma-archive/brief-generator-cli/internal/style"
	"github.com/kduma-archive/brief-generator-cli/internal/templates"
)

// ErrRender indicates the label document could not be produced.
var ErrRender = errors.New("failed to render labels")

// DefaultKey is reported for rows rendered with the default template.
const DefaultKey = "default"

// Config holds the page setup of the label document.
type Config struct {
	Width  float64 // page width in millimetres
	Height float64 // page height in millimetres
	Title  string  // document title metadata
	Column string  // discriminant column, layout.DefaultColumn when empty
}

// DefaultConfig returns an 80x80 mm page keyed on the first column.
func DefaultConfig() Config {
	return Config{Width: 80, Height: 80, Column: layout.DefaultColumn}
}

// Result summarises one generation run.
type Result struct {
	Pages     int
	Templates map[string]int // pages per layout key, DefaultKey for unmatched rows
}

// Generator renders rows with a default template and a set of keyed
// layout templates.
type Generator struct {
	cfg      Config
	style    style.Style
	fallback templates.Template
	keys     []string
	layouts  map[string]templates.Template
	resolver *layout.Resolver
}

// New creates a generator without templates. Call SetDefault before
// Generate.
func New(cfg Config, st style.Style) *Generator {
	if cfg.Column == "" {
		cfg.Column = layout.DefaultColumn
	}
	return &Generator{
		cfg:     cfg,
		style:   st,
		layouts: make(map[string]templates.Template),
	}
}

// NewFromSet creates a generator using every template of set and the style
// parsed from its stylesheet.
func NewFromSet(cfg Config, set *templates.Set) (*Generator, error) {
	st, err := style.Parse(set.Stylesheet)
	if err != nil {
		return nil, err
	}
	g := New(cfg, st)
	g.SetDefault(set.Default)
	for _, l := range set.Layouts {
		g.SetLayout(l.Key, l.Template)
	}
	return g, nil
}

// SetDefault sets the template used when no layout key matches.
func (g *Generator) SetDefault(tpl templates.Template) {
	g.fallback = tpl
}

// SetLayout registers tpl under key. Keys are tried in registration order;
// registering an existing key replaces its template in place.
func (g *Generator) SetLayout(key string, tpl templates.Template) {
	if _, ok := g.layouts[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.layouts[key] = tpl
	g.resolver = nil
}

// Keys returns the layout keys in the order they are tried.
func (g *Generator) Keys() []string {
	return append([]string(nil), g.keys...)
}

// Select returns the layout key and template used for row.
func (g *Generator) Select(row rows.Row) (string, templates.Template, error) {
	if g.resolver == nil {
		r, err := layout.NewResolver(g.keys, g.cfg.Column)
		if err != nil {
			return "", nil, err
		}
		g.resolver = r
	}
	if key, ok := g.resolver.Resolve(row); ok {
		return key, g.layouts[key], nil
	}
	if g.fallback == nil {
		return "", nil, errors.New("no default template")
	}
	return DefaultKey, g.fallback, nil
}

// Generate renders every row of src onto its own page and writes the
// document to dest. Nothing is written unless every row renders.
func (g *Generator) Generate(ctx context.Context, src rows.Source, dest string) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	res := Result{Templates: make(map[string]int)}

	if g.cfg.Width <= 0 || g.cfg.Height <= 0 {
		return res, fmt.Errorf("%w: invalid page size %gx%g", ErrRender, g.cfg.Width, g.cfg.Height)
	}

	face := faceFor(g.style.FontFamily)
	cov, err := newCoverage(face)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrRender, err)
	}
	pdf := g.newDocument(face)

	index := 0
	for row, err := range src.Rows() {
		if err != nil {
			return res, err
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		key, tpl, err := g.Select(row)
		if err != nil {
			return res, fmt.Errorf("%w: %v", ErrRender, err)
		}
		markup, err := tpl.Execute(templates.NewData(row, index))
		if err != nil {
			return res, fmt.Errorf("%w: line %d: %w", ErrRender, row.Line, err)
		}

		segs := segments(Normalize(markup))
		for _, seg := range segs {
			if seg.Cat != 'T' {
				continue
			}
			if r, ok := cov.missing(seg.Str); ok {
				return res, fmt.Errorf("%w: line %d: character %q is not supported by font", ErrRender, row.Line, r)
			}
		}
		if g.addPage(pdf, face, segs) {
			logger.Warn("label overflows page", "line", row.Line, "layout", key)
		}
		if err := pdf.Error(); err != nil {
			return res, fmt.Errorf("%w: line %d: %v", ErrRender, row.Line, err)
		}

		logger.Debug("rendered label", "line", row.Line, "layout", key, "template", tpl.Name())
		res.Templates[key]++
		res.Pages++
		index++
	}

	if res.Pages == 0 {
		return res, fmt.Errorf("%w: no rows", ErrRender)
	}

	err = output.WriteAtomic(dest, func(w io.Writer) error {
		return pdf.Output(w)
	})
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrRender, err)
	}
	logger.Debug("wrote label document", "path", dest, "pages", res.Pages)
	return res, nil
}

func (g *Generator) newDocument(f face) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: g.cfg.Width, Ht: g.cfg.Height},
	})
	f.register(pdf)
	pdf.SetAutoPageBreak(false, g.style.Margin.Bottom)
	pdf.SetMargins(g.style.Margin.Left, g.style.Margin.Top, g.style.Margin.Right)
	pdf.SetCreator("brief-generator", true)
	if g.cfg.Title != "" {
		pdf.SetTitle(g.cfg.Title, true)
	}
	return pdf
}

// addPage writes segs onto a new page and reports whether the text runs
// past the bottom margin.
func (g *Generator) addPage(pdf *fpdf.Fpdf, f face, segs []fpdf.HTMLBasicSegmentType) bool {
	st := g.style
	pdf.AddPage()
	pdf.SetFont(f.family, "", st.FontSize)
	pdf.SetTextColor(st.Color[0], st.Color[1], st.Color[2])

	lineHt := st.LineHeightMM()
	top := st.Margin.Top
	w := newMarkupWriter(pdf, lineHt)

	bold, italic := 0, 0
	if strings.Contains(st.FontStyle, "B") {
		bold = 1
	}
	if strings.Contains(st.FontStyle, "I") {
		italic = 1
	}
	if bold+italic > 0 {
		w.setStyle(bold, italic, 0)
	}

	// alignment tags open with a line break
	switch st.Align {
	case "C", "R":
		segs = append([]fpdf.HTMLBasicSegmentType{{Cat: 'O', Str: alignTags[st.Align]}}, segs...)
		top -= lineHt
	}
	if top < 0 {
		top = 0
	}
	pdf.SetY(top)
	w.Write(segs)

	_, pageHt := pdf.GetPageSize()
	return w.bottom > pageHt-st.Margin.Bottom+overflowSlack
}

var alignTags = map[string]string{"C": "center", "R": "right"}

// overflowSlack absorbs float rounding in line positions, in mm.
const overflowSlack = 0.01
