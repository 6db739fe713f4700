// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package layout selects which label template applies to a row.
//
// Layout keys are template file-name stems in which '0' stands for any
// single digit and 'A' for any single letter. Every other character matches
// itself. A key must match the discriminant value in full.
package layout

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kduma-archive/brief-generator-cli/internal/rows"
)

// DefaultColumn is the discriminant column used to pick a layout.
const DefaultColumn = "column_0"

const (
	digitPlaceholder  = '0'
	letterPlaceholder = 'A'
)

// Pattern translates a layout key into an anchored regular expression.
func Pattern(key string) string {
	var sb strings.Builder
	sb.WriteString("^")
	for _, r := range key {
		switch r {
		case digitPlaceholder:
			sb.WriteString("[0-9]")
		case letterPlaceholder:
			sb.WriteString("[A-Za-z]")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return sb.String()
}

type matcher struct {
	key string
	re  *regexp.Regexp
}

// Resolver matches discriminant values against layout keys in a fixed order.
// The first key that matches wins.
type Resolver struct {
	column   string
	matchers []matcher
}

// NewResolver compiles one matcher per key, preserving the order of keys.
// An empty column selects DefaultColumn.
func NewResolver(keys []string, column string) (*Resolver, error) {
	if column == "" {
		column = DefaultColumn
	}
	r := &Resolver{column: column, matchers: make([]matcher, 0, len(keys))}
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key == "" {
			return nil, errors.New("layout key cannot be empty")
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate layout key %q", key)
		}
		seen[key] = struct{}{}

		re, err := regexp.Compile(Pattern(key))
		if err != nil {
			return nil, fmt.Errorf("layout key %q: %w", key, err)
		}
		r.matchers = append(r.matchers, matcher{key: key, re: re})
	}
	return r, nil
}

// Match returns the first key whose pattern accepts value.
func (r *Resolver) Match(value string) (string, bool) {
	for _, m := range r.matchers {
		if m.re.MatchString(value) {
			return m.key, true
		}
	}
	return "", false
}

// Resolve returns the layout key for row. Rows without the discriminant
// column never match.
func (r *Resolver) Resolve(row rows.Row) (string, bool) {
	value, ok := row.Get(r.column)
	if !ok {
		return "", false
	}
	return r.Match(value)
}

// Keys returns the keys in evaluation order.
func (r *Resolver) Keys() []string {
	keys := make([]string, len(r.matchers))
	for i, m := range r.matchers {
		keys[i] = m.key
	}
	return keys
}

// Column returns the discriminant column.
func (r *Resolver) Column() string {
	return r.column
}
