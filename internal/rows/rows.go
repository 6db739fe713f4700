// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package rows reads label records from delimited text files and workbooks.
package rows

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrParse indicates the source content could not be split into records.
var ErrParse = errors.New("malformed source data")

const columnPrefix = "column_"

// ColumnKey returns the positional key of the i-th column, e.g. "column_0".
func ColumnKey(i int) string {
	return columnPrefix + strconv.Itoa(i)
}

// Row is a single source record. Values are addressed by positional keys
// since sources are always read without a header row.
type Row struct {
	Line   int      // 1-based line (or sheet row) the record starts on
	Values []string // field values in column order
}

// Get returns the value stored under a positional key.
func (r Row) Get(key string) (string, bool) {
	idx, ok := strings.CutPrefix(key, columnPrefix)
	if !ok {
		return "", false
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 || i >= len(r.Values) || ColumnKey(i) != key {
		return "", false
	}
	return r.Values[i], true
}

// Keys returns the positional keys of the row in column order.
func (r Row) Keys() []string {
	keys := make([]string, len(r.Values))
	for i := range r.Values {
		keys[i] = ColumnKey(i)
	}
	return keys
}

// Map returns the row as a key → value map.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.Values))
	for i, v := range r.Values {
		m[ColumnKey(i)] = v
	}
	return m
}

// Source is a lazy, single-pass sequence of rows.
// Restarting requires opening the underlying file again.
type Source interface {
	Rows() iter.Seq2[Row, error]
	Close() error
}

// Open returns a Source for the file at path. Workbooks (.xlsx, .xlsm) are
// read from their first sheet; every other file is read as delimited text.
func Open(path string, d Dialect) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return OpenWorkbook(path)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	return newDelimited(f, f, d), nil
}
