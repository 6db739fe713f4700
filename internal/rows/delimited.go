// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package rows

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"
)

// Dialect describes how a delimited file is tokenized.
type Dialect struct {
	Delimiter rune // field separator
	Enclosure rune // quote character around fields
	Escape    rune // escapes an enclosure inside a quoted field
}

// DefaultDialect returns the comma / double quote / backslash dialect.
func DefaultDialect() Dialect {
	return Dialect{Delimiter: ',', Enclosure: '"', Escape: '\\'}
}

// Validate checks that the dialect characters can be told apart.
func (d Dialect) Validate() error {
	for name, r := range map[string]rune{"delimiter": d.Delimiter, "enclosure": d.Enclosure, "escape": d.Escape} {
		if r == 0 {
			return fmt.Errorf("%s must be set", name)
		}
		if r == '\n' || r == '\r' {
			return fmt.Errorf("%s cannot be a line break", name)
		}
	}
	if d.Delimiter == d.Enclosure {
		return errors.New("delimiter and enclosure must differ")
	}
	if d.Delimiter == d.Escape {
		return errors.New("delimiter and escape must differ")
	}
	return nil
}

// Char parses a single-character option value.
func Char(name, value string) (rune, error) {
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("%s must be exactly one character, got %q", name, value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}

// Delimited reads records from delimited text.
type Delimited struct {
	r       *bufio.Reader
	closer  io.Closer
	dialect Dialect
	line    int
}

// NewDelimited returns a Source reading delimited records from r.
func NewDelimited(r io.Reader, d Dialect) *Delimited {
	return newDelimited(r, nil, d)
}

func newDelimited(r io.Reader, closer io.Closer, d Dialect) *Delimited {
	return &Delimited{r: bufio.NewReader(r), closer: closer, dialect: d}
}

// Rows yields records until the input is exhausted or a parse error occurs.
// Blank lines are skipped.
func (s *Delimited) Rows() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for {
			row, err := s.next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Row{}, err)
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// Close releases the underlying file, if any.
func (s *Delimited) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *Delimited) next() (Row, error) {
	for {
		start := s.line + 1
		fields, err := s.readRecord()
		if err != nil {
			return Row{}, err
		}
		if fields == nil {
			continue
		}
		return Row{Line: start, Values: fields}, nil
	}
}

// readRecord reads one logical record. A nil slice with a nil error means
// the physical line was blank.
func (s *Delimited) readRecord() ([]string, error) {
	d := s.dialect
	s.line++
	startLine := s.line

	var (
		fields     []string
		field      strings.Builder
		inQuotes   bool
		afterQuote bool
		sawAny     bool
	)

	for {
		r, _, err := s.r.ReadRune()
		if errors.Is(err, io.EOF) {
			if inQuotes {
				return nil, fmt.Errorf("%w: line %d: unterminated enclosed field", ErrParse, startLine)
			}
			if !sawAny && field.Len() == 0 {
				return nil, io.EOF
			}
			return append(fields, field.String()), nil
		}
		if err != nil {
			return nil, err
		}

		if inQuotes {
			switch {
			case r == d.Escape && d.Escape != d.Enclosure:
				next, _, err := s.r.ReadRune()
				if errors.Is(err, io.EOF) {
					return nil, fmt.Errorf("%w: line %d: escape at end of input", ErrParse, startLine)
				}
				if err != nil {
					return nil, err
				}
				if next == d.Enclosure || next == d.Escape {
					field.WriteRune(next)
					continue
				}
				field.WriteRune(r)
				_ = s.r.UnreadRune()
			case r == d.Enclosure:
				next, _, err := s.r.ReadRune()
				switch {
				case err == nil && next == d.Enclosure:
					field.WriteRune(d.Enclosure)
					continue
				case err == nil:
					_ = s.r.UnreadRune()
				case !errors.Is(err, io.EOF):
					return nil, err
				}
				inQuotes = false
				afterQuote = true
			default:
				if r == '\n' {
					s.line++
				}
				field.WriteRune(r)
			}
			continue
		}

		switch {
		case r == d.Delimiter:
			fields = append(fields, field.String())
			field.Reset()
			afterQuote = false
			sawAny = true
		case r == '\r' && s.peek() == '\n':
			continue
		case r == '\n':
			if !sawAny && field.Len() == 0 {
				return nil, nil
			}
			return append(fields, field.String()), nil
		case afterQuote:
			return nil, fmt.Errorf("%w: line %d: unexpected %q after closing enclosure", ErrParse, s.line, r)
		case r == d.Enclosure && field.Len() == 0:
			inQuotes = true
			sawAny = true
		default:
			field.WriteRune(r)
			sawAny = true
		}
	}
}

func (s *Delimited) peek() rune {
	r, _, err := s.r.ReadRune()
	if err != nil {
		return 0
	}
	_ = s.r.UnreadRune()
	return r
}
