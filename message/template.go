// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package message

import (
	"strings"
	"sync"
)

// templateCache caches parsed templates per unique format string.
// Parsing is pure, so entries never need invalidation.
var templateCache sync.Map // key: format string, value: *Template

// Template is a parsed format string: an alternating sequence of literal
// text and placeholders, in source order.
type Template struct {
	src      string
	segments []segment
}

// segment is either literal text (ph == nil) or a placeholder.
type segment struct {
	text string
	ph   *Placeholder
}

// Placeholder is one {...} substitution site inside a format string.
type Placeholder struct {
	// Path is the dot-separated variable path, e.g. ["product", "price"].
	Path []string

	// RawPath is the path as written, e.g. "product.price". Used for exact
	// key matches against named parameters and in diagnostics.
	RawPath string

	// Modifiers are applied left to right to the resolved value.
	Modifiers []ModifierSpec

	// Default is used when the path resolves to nothing; only meaningful
	// when HasDefault is set. Quoted defaults are stored unquoted.
	Default    string
	HasDefault bool
}

// ModifierSpec is one entry in a placeholder's modifier chain.
type ModifierSpec struct {
	// Spec is the raw POSIX conversion, e.g. "%.2f", when the modifier is a
	// format spec; empty otherwise.
	Spec string

	// Name is the modifier name, e.g. "BYTES" or "DT"; empty for format specs.
	Name string

	// Arg is the parenthesized argument, e.g. "RFC1123" in DT(RFC1123).
	Arg string
}

// escaped reports whether the placeholder value is exempt from HTML escaping
// because its path carries the reserved "_html" suffix.
func (p *Placeholder) escaped() bool {
	if len(p.Path) == 0 {
		return false
	}

	return strings.HasSuffix(p.Path[len(p.Path)-1], htmlSuffix)
}

// htmlSuffix marks a variable as already HTML-escaped by the caller.
const htmlSuffix = "_html"

// ParseTemplate parses a format string, consulting the process-wide cache
// first. Safe for concurrent use.
func ParseTemplate(src string) *Template {
	if t, ok := templateCache.Load(src); ok {
		return t.(*Template)
	}

	t := parseTemplate(src)
	templateCache.Store(src, t)

	return t
}

// parseTemplate parses src without touching the cache.
//
// Parsing is total: a "{" that does not open a well-formed placeholder is
// emitted as literal text, never an error.
func parseTemplate(src string) *Template {
	t := &Template{src: src}

	var lit strings.Builder

	i := 0
	for i < len(src) {
		c := src[i]
		if c != '{' {
			lit.WriteByte(c)
			i++

			continue
		}

		// Find the closing brace. Another "{" before "}" means the opening
		// brace was literal text.
		end := -1

		for j := i + 1; j < len(src); j++ {
			if src[j] == '{' {
				break
			}

			if src[j] == '}' {
				end = j

				break
			}
		}

		if end < 0 {
			lit.WriteByte(c)
			i++

			continue
		}

		ph := parsePlaceholder(src[i+1 : end])
		if ph == nil {
			// Empty or malformed interior degrades to literal text.
			lit.WriteString(src[i : end+1])
			i = end + 1

			continue
		}

		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{text: lit.String()})
			lit.Reset()
		}

		t.segments = append(t.segments, segment{ph: ph})
		i = end + 1
	}

	if lit.Len() > 0 {
		t.segments = append(t.segments, segment{text: lit.String()})
	}

	return t
}

// parsePlaceholder parses the interior of a brace pair. Returns nil when the
// interior does not form a valid placeholder.
func parsePlaceholder(inner string) *Placeholder {
	body := inner

	var (
		def    string
		hasDef bool
	)

	if idx := strings.Index(inner, "//"); idx >= 0 {
		body = inner[:idx]
		def = strings.TrimSpace(inner[idx+2:])
		hasDef = true

		// A quoted default may contain spaces; strip the quotes.
		if len(def) >= 2 {
			if q := def[0]; (q == '\'' || q == '"') && def[len(def)-1] == q {
				def = def[1 : len(def)-1]
			}
		}
	}

	fields := splitFields(body)
	if len(fields) == 0 {
		return nil
	}

	rawPath := fields[0]
	if !validPath(rawPath) {
		return nil
	}

	ph := &Placeholder{
		Path:       strings.Split(rawPath, "."),
		RawPath:    rawPath,
		Default:    def,
		HasDefault: hasDef,
	}

	for _, f := range fields[1:] {
		ph.Modifiers = append(ph.Modifiers, parseModifierSpec(f))
	}

	return ph
}

// splitFields splits on whitespace but keeps a parenthesized modifier
// argument together even when it contains spaces, e.g. "DT(RFC 1123)".
func splitFields(s string) []string {
	raw := strings.Fields(s)

	var out []string

	for i := 0; i < len(raw); i++ {
		f := raw[i]

		for strings.Contains(f, "(") && !strings.Contains(f, ")") && i+1 < len(raw) {
			i++
			f += " " + raw[i]
		}

		out = append(out, f)
	}

	return out
}

// parseModifierSpec classifies one modifier token.
func parseModifierSpec(tok string) ModifierSpec {
	if strings.HasPrefix(tok, "%") {
		return ModifierSpec{Spec: tok}
	}

	if open := strings.IndexByte(tok, '('); open >= 0 && strings.HasSuffix(tok, ")") {
		return ModifierSpec{
			Name: tok[:open],
			Arg:  strings.TrimSpace(tok[open+1 : len(tok)-1]),
		}
	}

	return ModifierSpec{Name: tok}
}

// validPath reports whether s is a usable variable path: non-empty
// dot-separated identifiers, where an identifier starts with a letter or
// underscore.
func validPath(s string) bool {
	if s == "" {
		return false
	}

	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}

		c := part[0]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}

	return true
}

// SplitPlural splits a raw msgid on the first unescaped pipe into its
// singular and plural halves. Escaped pipes ("\|") are unescaped in the
// returned strings. The second return is false when msgid has no plural
// half.
//
// The same split is applied by the call-site scanner at extraction time and
// by the formatter at render time, so both sides always agree on plurality.
func SplitPlural(msgid string) (singular, plural string, ok bool) {
	var b strings.Builder

	for i := 0; i < len(msgid); i++ {
		c := msgid[i]

		if c == '\\' && i+1 < len(msgid) && msgid[i+1] == '|' {
			b.WriteByte('|')
			i++

			continue
		}

		if c == '|' {
			singular = b.String()
			plural = unescapePipes(msgid[i+1:])

			return singular, plural, true
		}

		b.WriteByte(c)
	}

	return b.String(), "", false
}

func unescapePipes(s string) string {
	return strings.ReplaceAll(s, `\|`, "|")
}
