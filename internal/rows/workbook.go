// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package rows

import (
	"fmt"
	"iter"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook reads records from the first sheet of a spreadsheet.
type Workbook struct {
	file  *excelize.File
	sheet string
}

// OpenWorkbook opens the spreadsheet at path.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %v", ErrParse, err)
	}
	sheet := f.GetSheetName(0)
	if sheet == "" {
		_ = f.Close()
		return nil, fmt.Errorf("%w: workbook %s has no sheets", ErrParse, path)
	}
	return &Workbook{file: f, sheet: sheet}, nil
}

// Rows yields every non-empty sheet row with all cells formatted as text.
func (w *Workbook) Rows() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		it, err := w.file.Rows(w.sheet)
		if err != nil {
			yield(Row{}, fmt.Errorf("%w: sheet %s: %v", ErrParse, w.sheet, err))
			return
		}
		defer it.Close() //nolint:errcheck

		line := 0
		for it.Next() {
			line++
			cols, err := it.Columns()
			if err != nil {
				yield(Row{}, fmt.Errorf("%w: sheet %s row %d: %v", ErrParse, w.sheet, line, err))
				return
			}
			if blank(cols) {
				continue
			}
			if !yield(Row{Line: line, Values: cols}, nil) {
				return
			}
		}
		if err := it.Error(); err != nil {
			yield(Row{}, fmt.Errorf("%w: sheet %s: %v", ErrParse, w.sheet, err))
		}
	}
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

func blank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
