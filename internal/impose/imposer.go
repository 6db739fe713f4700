// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package impose arranges the pages of a label document onto larger print
// sheets with cut marks.
package impose

import (
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"

	"github.com/kduma-archive/brief-generator-cli/internal/ctxlog"
	"github.com/kduma-archive/brief-generator-cli/internal/output"
)

const pageBox = "/MediaBox"

// Result summarises one imposition run.
type Result struct {
	Pages    int
	Sheets   int
	PerSheet int
}

// Imposer places the pages of a document onto sheets planned by a Layout.
type Imposer struct {
	Layout    Layout
	LineWidth float64 // cut mark stroke in millimetres
}

// New returns an imposer with hairline cut marks.
func New(l Layout) *Imposer {
	return &Imposer{Layout: l, LineWidth: 0.1}
}

// Impose reads every page of src, packs them row-major onto sheets and
// writes the result to dest. src and dest may be the same file.
func (im *Imposer) Impose(ctx context.Context, src, dest string) (res Result, err error) {
	logger := ctxlog.FromContext(ctx)

	grid, err := im.Layout.Plan()
	if err != nil {
		return res, err
	}
	per := grid.PerSheet()
	res.PerSheet = per

	// the importer reports unreadable documents by panicking
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrImposition, src, r)
		}
	}()

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: grid.Sheet.W, Ht: grid.Sheet.H},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("brief-generator", true)
	pdf.SetLineWidth(im.LineWidth)
	pdf.SetDrawColor(0, 0, 0)

	imp := gofpdi.NewImporter()
	first := imp.ImportPage(pdf, src, 1, pageBox)
	res.Pages = len(imp.GetPageSizes())
	if res.Pages == 0 {
		return res, fmt.Errorf("%w: %s has no pages", ErrImposition, src)
	}
	logger.Debug("imposing", "pages", res.Pages, "per_sheet", per, "sheet", grid.Sheet.String())

	for start := 0; start < res.Pages; start += per {
		pdf.AddPage()
		res.Sheets++

		used := min(per, res.Pages-start)
		for slot := 0; slot < used; slot++ {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			pageNo := start + slot + 1
			tpl := first
			if pageNo > 1 {
				tpl = imp.ImportPage(pdf, src, pageNo, pageBox)
			}
			cell := grid.Cells[slot]
			imp.UseImportedTemplate(pdf, tpl, cell.X, cell.Y, cell.W, cell.H)
		}
		for _, s := range grid.MarksFor(used) {
			pdf.Line(s.X1, s.Y1, s.X2, s.Y2)
		}
	}

	if err := pdf.Error(); err != nil {
		return res, fmt.Errorf("%w: %v", ErrImposition, err)
	}
	err = output.WriteAtomic(dest, func(w io.Writer) error {
		return pdf.Output(w)
	})
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrImposition, err)
	}
	logger.Debug("wrote imposed document", "path", dest, "sheets", res.Sheets)
	return res, nil
}

// CountPages returns the number of pages in the PDF at path.
func CountPages(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrImposition, path, r)
		}
	}()
	imp := gofpdi.NewImporter()
	imp.ImportPage(fpdf.New("P", "mm", "A4", ""), path, 1, pageBox)
	return len(imp.GetPageSizes()), nil
}
