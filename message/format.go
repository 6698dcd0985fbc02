// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package message

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/language"
)

// CountKey is the reserved named parameter carrying the plural count. It is
// also visible to placeholders, so a plural half can render the count with
// "{_count}".
const CountKey = "_count"

// Translator supplies language-selected format strings for source msgids.
// It owns locale-specific plural rules; ok is false when no translation is
// loaded for the given language, in which case the formatter falls back to
// the source text and the default plural rule (count == 1 selects singular).
//
// Implementations must be safe for concurrent use once loaded.
type Translator interface {
	Get(lang language.Tag, msgid string) (string, bool)
	GetPlural(lang language.Tag, singular, plural string, n int) (string, bool)
}

// Call carries the per-render context of one formatting invocation. A Call
// is constructed fresh per render and never shared; in particular the target
// language travels here rather than in any process-wide state, so concurrent
// renders in different languages cannot leak into each other.
type Call struct {
	// Lang is the target language tag. The zero tag selects the formatter's
	// default.
	Lang language.Tag

	// HTML enables escaping of substituted values. Literal segments are
	// never escaped.
	HTML bool

	// Target identifies the render target (usually the template file) in
	// diagnostics.
	Target string

	// Scope is the ambient variable lookup used as a fallback parameter
	// source. May be nil.
	Scope Scope
}

// Formatter resolves messages into localized, parameter-filled output. It is
// immutable after construction and safe for concurrent use.
type Formatter struct {
	tr          Translator
	defaultLang language.Tag
}

// NewFormatter returns a Formatter backed by tr. A nil tr means no
// translation: msgids render as written. lang is the default target language
// used when a Call carries the zero tag.
func NewFormatter(tr Translator, lang language.Tag) *Formatter {
	return &Formatter{tr: tr, defaultLang: lang}
}

// Format is the positional "function" call shape: msgid, then positional
// arguments, then an optional trailing [Params].
//
// A msgid containing an unescaped pipe has singular and plural halves and
// requires a count, taken from the "_count" named parameter or the first
// positional argument. A msgid without a pipe must not be given a count.
// Positional arguments left over once the count is consumed are an error.
func (f *Formatter) Format(call Call, msgid string, args ...any) (string, error) {
	return f.format(call, msgid, args, true)
}

// Bind is the first stage of the "filter" call shape: it captures the
// parameters now and returns a BoundFilter whose Apply formats the message
// body captured later from template content.
func (f *Formatter) Bind(call Call, args ...any) *BoundFilter {
	return &BoundFilter{f: f, call: call, args: args}
}

// BoundFilter is a filter-shape invocation with its parameters already
// bound. It is immutable and may be applied any number of times.
type BoundFilter struct {
	f    *Formatter
	call Call
	args []any
}

// Apply formats msgid with the bound parameters. Validation matches
// [Formatter.Format] except that a count can only come from the "_count"
// named parameter; the filter shape has no positional count.
func (b *BoundFilter) Apply(msgid string) (string, error) {
	return b.f.format(b.call, msgid, b.args, false)
}

func (f *Formatter) format(call Call, msgid string, args []any, positionalCount bool) (string, error) {
	named, positionals := splitArgs(args)

	singular, plural, hasPlural := SplitPlural(msgid)

	var (
		count    int64
		hasCount bool
	)

	if cv, ok := named[CountKey]; ok {
		n, err := toInt(cv)
		if err != nil {
			return "", fmt.Errorf("message: %s: %w", CountKey, err)
		}

		count, hasCount = n, true
	}

	if hasPlural && !hasCount && positionalCount && len(positionals) > 0 {
		n, err := toInt(positionals[0])
		if err != nil {
			return "", fmt.Errorf("message: count: %w", err)
		}

		count, hasCount = n, true
		positionals = positionals[1:]
	}

	switch {
	case hasPlural && !hasCount:
		return "", fmt.Errorf("%w: %q", ErrCountRequired, singular)
	case !hasPlural && hasCount:
		return "", fmt.Errorf("%w: %q", ErrUnexpectedCount, singular)
	case len(positionals) > 0:
		return "", fmt.Errorf("%w: %q has %d extra", ErrSuperfluousParams, singular, len(positionals))
	}

	text := f.selectText(call, singular, plural, hasPlural, count)

	if hasCount {
		// Expose the count to placeholders without mutating the caller's map.
		withCount := make(Params, len(named)+1)
		for k, v := range named {
			withCount[k] = v
		}

		withCount[CountKey] = count
		named = withCount
	}

	return f.render(call, text, named), nil
}

// selectText picks the translated format string, delegating plural-rule
// evaluation to the translator. Without a translator, or when the target
// language has no translation, the source text is used with the fallback
// rule: count == 1 selects singular.
func (f *Formatter) selectText(call Call, singular, plural string, hasPlural bool, count int64) string {
	lang := call.Lang
	if lang == (language.Tag{}) {
		lang = f.defaultLang
	}

	if f.tr != nil {
		if hasPlural {
			if s, ok := f.tr.GetPlural(lang, singular, plural, int(count)); ok {
				return s
			}
		} else if s, ok := f.tr.Get(lang, singular); ok {
			return s
		}
	}

	if hasPlural && count != 1 {
		return plural
	}

	return singular
}

// render substitutes every placeholder of text and concatenates the result.
// Resolution failures degrade to an empty substitution with a warning;
// rendering itself never fails.
func (f *Formatter) render(call Call, text string, params Params) string {
	tpl := ParseTemplate(text)

	var b strings.Builder

	for _, seg := range tpl.segments {
		if seg.ph == nil {
			b.WriteString(seg.text)

			continue
		}

		value, ok := resolveValue(seg.ph, params, call.Scope)
		if !ok {
			warnMissingKey(call.Target, seg.ph.RawPath, text)

			value = ""
		}

		out, err := applyModifiers(seg.ph.Modifiers, value)
		if err != nil {
			warnModifier(call.Target, seg.ph.RawPath, text, err)

			out = stringify(value)
		}

		if call.HTML && !seg.ph.escaped() {
			out = html.EscapeString(out)
		}

		b.WriteString(out)
	}

	return b.String()
}

// splitArgs separates the optional trailing named-parameter set from the
// positional arguments.
func splitArgs(args []any) (Params, []any) {
	if len(args) == 0 {
		return nil, nil
	}

	if p, ok := args[len(args)-1].(Params); ok {
		return p, args[:len(args)-1]
	}

	if m, ok := args[len(args)-1].(map[string]any); ok {
		return Params(m), args[:len(args)-1]
	}

	return nil, args
}
