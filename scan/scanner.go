// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package scan

import (
	"fmt"
	"regexp"
	"strings"

	"codeberg.org/pixivfe/tmplgettext/message"
)

// Shape is the syntactic form of a translation call-site.
type Shape int

const (
	// ShapeFunction is a call like [% loc('msg') %].
	ShapeFunction Shape = iota

	// ShapeInlineFilter is a quoted literal piped in one tag, [% 'msg' | loc %].
	ShapeInlineFilter

	// ShapeBlockFilter captures the text between an opening filter tag and
	// the END tag, [% | loc %]msg[% END %].
	ShapeBlockFilter
)

// CallSite is one located translation call. Immutable; consumed into the
// accumulator right after the scan emits it.
type CallSite struct {
	File  string
	Line  int
	Shape Shape

	Msgid     string
	Plural    string
	HasPlural bool
}

// SyntaxError is a fatal scan error: the file cannot be extracted. At most
// one is reported per ScanFile call.
type SyntaxError struct {
	File string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("scan: %s:%d: %s", e.File, e.Line, e.Msg)
}

// namedEntity matches HTML named character references such as "&amp;".
// Numeric references are deliberately not covered.
var namedEntity = regexp.MustCompile(`&[a-zA-Z][a-zA-Z0-9]*;`)

// Scanner locates translation call-sites for one translation function in one
// dialect. Immutable after construction and safe for concurrent use, though
// extraction runs are sequential by design.
type Scanner struct {
	fn    string
	tagRe *regexp.Regexp

	blockRe  *regexp.Regexp
	endRe    *regexp.Regexp
	inlineRe *regexp.Regexp
	callRe   *regexp.Regexp
}

// NewScanner builds a Scanner for the given dialect and translation function
// name. An unsupported dialect is a configuration error, raised here so no
// scanning ever starts with a bad pattern.
func NewScanner(d Dialect, fn string) (*Scanner, error) {
	tagRe, err := d.tagPattern()
	if err != nil {
		return nil, err
	}

	q := regexp.QuoteMeta(fn)

	// Go's regexp has no backreferences, so each quote style gets its own
	// branch; a branch's body may contain the other quote unescaped.
	const quoted = `(?:'((?:\\.|[^'\\])*)'|"((?:\\.|[^"\\])*)")`

	return &Scanner{
		fn:       fn,
		tagRe:    tagRe,
		// A prefix match: the filter may bind parameters after the function
		// name, e.g. "| loc(n)".
		blockRe:  regexp.MustCompile(`^\s*(?:\||FILTER\b)\s*` + q + `\b`),
		endRe:    regexp.MustCompile(`^\s*END\s*$`),
		inlineRe: regexp.MustCompile(`(?s)` + quoted + `\s*\|\s*` + q + `\b`),
		callRe:   regexp.MustCompile(`(?s)` + q + `\s*\(\s*` + quoted),
	}, nil
}

// ScanFile extracts every call-site from text, which must be the complete
// contents of file. Sites are returned in source order with 1-based lines.
//
// A block filter without a following END tag aborts the scan for this file
// with a *SyntaxError; sites found before the error are discarded.
func (s *Scanner) ScanFile(file, text string) ([]CallSite, error) {
	matches := s.tagRe.FindAllStringSubmatchIndex(text, -1)

	// Alternating (skipped text, tag content) fragments in source order.
	skipped := make([]string, 0, len(matches))
	tags := make([]string, 0, len(matches))

	last := 0

	for _, m := range matches {
		skipped = append(skipped, text[last:m[0]])
		tags = append(tags, tagContent(text, m))

		last = m[1]
	}

	var sites []CallSite

	line := 1

	for i := 0; i < len(tags); i++ {
		line += newlines(skipped[i])
		content := tags[i]

		if s.blockRe.MatchString(content) {
			bodyLine := line + newlines(content)

			if i+1 >= len(tags) || !s.endRe.MatchString(tags[i+1]) {
				return nil, &SyntaxError{
					File: file,
					Line: bodyLine,
					Msg:  fmt.Sprintf("%s block filter is not followed by END", s.fn),
				}
			}

			body := skipped[i+1]
			sites = append(sites, s.site(file, bodyLine, ShapeBlockFilter, body))

			line = bodyLine + newlines(body) + newlines(tags[i+1])
			i++ // the END tag and the body before it are consumed

			continue
		}

		if m := s.inlineRe.FindStringSubmatchIndex(content); m != nil {
			start, end := quotedGroup(m)
			msgid := unescapeQuoted(content[start:end])
			sites = append(sites, s.site(file, line+newlines(content[:start]), ShapeInlineFilter, msgid))

			line += newlines(content)

			continue
		}

		// The function-call shape may repeat within one tag, e.g. in inline
		// assignment contexts.
		for _, m := range s.callRe.FindAllStringSubmatchIndex(content, -1) {
			start, end := quotedGroup(m)
			msgid := unescapeQuoted(content[start:end])
			sites = append(sites, s.site(file, line+newlines(content[:start]), ShapeFunction, msgid))
		}

		line += newlines(content)
	}

	return sites, nil
}

// site splits the raw msgid into its singular/plural halves and flags
// hand-escaped HTML entities, which template authors should leave to the
// render-time escaping policy instead.
func (s *Scanner) site(file string, line int, shape Shape, raw string) CallSite {
	singular, plural, hasPlural := message.SplitPlural(raw)

	if namedEntity.MatchString(singular) {
		warnEntityEscape(file, line, singular)
	}

	if hasPlural && namedEntity.MatchString(plural) {
		warnEntityEscape(file, line, plural)
	}

	return CallSite{
		File:      file,
		Line:      line,
		Shape:     shape,
		Msgid:     singular,
		Plural:    plural,
		HasPlural: hasPlural,
	}
}

// tagContent extracts whichever capture group matched; dialect 1 has one
// group per bracket spelling.
func tagContent(text string, m []int) string {
	for g := 2; g < len(m); g += 2 {
		if m[g] >= 0 {
			return text[m[g]:m[g+1]]
		}
	}

	return ""
}

// quotedGroup returns the bounds of whichever quoted-body capture matched:
// group 1 for single quotes, group 2 for double quotes.
func quotedGroup(m []int) (start, end int) {
	if m[2] >= 0 {
		return m[2], m[3]
	}

	return m[4], m[5]
}

// unescapeQuoted removes the backslash escapes valid inside a quoted msgid.
// Escaped pipes are kept for the later plural split.
func unescapeQuoted(s string) string {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '\'', '"', '\\':
				b.WriteByte(s[i+1])
				i++

				continue
			}
		}

		b.WriteByte(s[i])
	}

	return b.String()
}

func newlines(s string) int {
	return strings.Count(s, "\n")
}
