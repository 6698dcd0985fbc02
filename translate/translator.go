// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package translate implements the translator side of message formatting on
top of GNU gettext .po catalogs. It loads one catalog per locale, matches a
requested language tag against the loaded set, and returns the selected
format string for a msgid. Locale-specific plural rules come from each
catalog's Plural-Forms header via gotext.
*/
package translate

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// Logger is the logger used by package translate.
var Logger zerolog.Logger = log.With().Str("sys", "translate").Logger()

// BaseLocale is the source language of msgids; it acts as the default
// fallback of the matcher.
const BaseLocale = "en"

var baseTag = language.Make(BaseLocale)

// Catalog holds the loaded locales of one gettext domain. Read-only after
// Load and safe for concurrent use.
type Catalog struct {
	domain       string
	localesByTag map[string]*gotext.Locale
	supported    []language.Tag
	matcher      language.Matcher
}

// Load reads every .po file under dir in fsys and builds a Catalog for the
// given gettext domain. The expected layout is:
//
//	<dir>/<locale>.po
//
// The <locale> filename part may use hyphens or underscores, for example
// "pt-BR.po" or "pt_BR.po", and is normalised to a canonical BCP 47 tag.
// The template file "<domain>.pot" is ignored, as are files whose name does
// not parse as a language tag.
func Load(fsys fs.FS, dir, domain string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("translate: failed to read catalog directory: %w", err)
	}

	c := &Catalog{
		domain:       domain,
		localesByTag: make(map[string]*gotext.Locale),
	}

	var tagsList []language.Tag

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".po") {
			continue
		}

		fileName := entry.Name()
		localeName := strings.TrimSuffix(fileName, ".po")

		t, err := language.Parse(strings.ReplaceAll(localeName, "_", "-"))
		if err != nil {
			Logger.Warn().Err(err).Str("file", fileName).Msg("Skipping invalid locale file")

			continue
		}

		canonical := t.String()

		po := gotext.NewPoFS(fsys)
		po.ParseFile(path.Join(dir, fileName))

		loc := gotext.NewLocale("", canonical) // base path is unused with a manual translator
		loc.AddTranslator(domain, po)

		c.localesByTag[canonical] = loc
		tagsList = append(tagsList, t)

		Logger.Info().
			Str("locale", canonical).
			Str("domain", domain).
			Msg("Loaded locale")
	}

	// The base tag goes first to make it the matcher's default fallback.
	sort.Slice(tagsList, func(i, j int) bool { return tagsList[i].String() < tagsList[j].String() })

	all := make([]language.Tag, 0, len(tagsList)+1)
	all = append(all, baseTag)

	for _, t := range tagsList {
		if t == baseTag {
			continue
		}

		all = append(all, t)
	}

	c.matcher = language.NewMatcher(all)
	c.supported = all

	return c, nil
}

// Languages returns the supported tags, base locale first. The returned
// slice is a copy and safe to retain.
func (c *Catalog) Languages() []language.Tag {
	out := make([]language.Tag, len(c.supported))
	copy(out, c.supported)

	return out
}

// Get returns the translated format string for msgid in the best-matching
// loaded locale. ok is false when no locale matches or the msgid is
// untranslated there; the caller then falls back to the source text.
func (c *Catalog) Get(lang language.Tag, msgid string) (string, bool) {
	loc := c.resolve(lang)
	if loc == nil || !loc.IsTranslatedD(c.domain, msgid) {
		return "", false
	}

	return loc.GetD(c.domain, msgid), true
}

// GetPlural returns the plural-resolved translation of singular for count n,
// using the matched locale's own plural rule. ok is false when untranslated.
func (c *Catalog) GetPlural(lang language.Tag, singular, plural string, n int) (string, bool) {
	loc := c.resolve(lang)
	if loc == nil || !loc.IsTranslatedND(c.domain, singular, n) {
		return "", false
	}

	return loc.GetND(c.domain, singular, plural, n), true
}

// resolve matches lang against the loaded locales. A nil result means the
// base locale won the match and no catalog applies.
//
// The matcher's index is used rather than the returned tag: the matched tag
// may carry extra information from the request (e.g. a region) and then no
// longer equals the supported tag the locale was registered under.
func (c *Catalog) resolve(lang language.Tag) *gotext.Locale {
	if c.matcher == nil {
		return nil
	}

	_, idx := language.MatchStrings(c.matcher, lang.String())

	return c.localesByTag[c.supported[idx].String()]
}
