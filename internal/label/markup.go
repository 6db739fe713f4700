// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package label

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	headingOpen  = regexp.MustCompile(`(?i)<h[1-6](\s[^>]*)?>`)
	headingClose = regexp.MustCompile(`(?i)</h[1-6]\s*>`)
	strongTag    = regexp.MustCompile(`(?i)<(/?)strong(\s[^>]*)?>`)
	emTag        = regexp.MustCompile(`(?i)<(/?)em(\s[^>]*)?>`)
	blockClose   = regexp.MustCompile(`(?i)</(p|div|li|tr|ul|ol|table|blockquote|pre)\s*>`)
	breakTag     = regexp.MustCompile(`(?i)<br\s*/?>`)
	whitespace   = regexp.MustCompile(`\s+`)
	spacedBreak  = regexp.MustCompile(` ?<br> ?`)
)

// markupPolicy allows the tags the PDF text writer understands.
func markupPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "u", "br", "center", "right", "left")
	p.AllowNoAttrs().OnElements("right", "left")
	p.RequireParseableURLs(true)
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowAttrs("href").OnElements("a")
	return p
}

var policy = markupPolicy()

// Normalize reduces rendered template output to the basic markup subset
// written onto label pages: b, i, u, br, center, right and a[href].
// Headings become bold lines, block ends become line breaks, everything
// else is stripped down to its text. Text stays HTML-escaped.
func Normalize(markup string) string {
	s := headingOpen.ReplaceAllString(markup, "<b>")
	s = headingClose.ReplaceAllString(s, "</b><br>")
	s = strongTag.ReplaceAllString(s, "<${1}b>")
	s = emTag.ReplaceAllString(s, "<${1}i>")
	s = blockClose.ReplaceAllString(s, "<br>")

	s = policy.Sanitize(s)

	s = breakTag.ReplaceAllString(s, "<br>")
	s = whitespace.ReplaceAllString(s, " ")
	s = spacedBreak.ReplaceAllString(s, "<br>")
	s = strings.TrimSpace(s)
	for strings.HasSuffix(s, "<br>") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "<br>"))
	}
	for strings.HasPrefix(s, "<br>") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "<br>"))
	}
	return s
}
