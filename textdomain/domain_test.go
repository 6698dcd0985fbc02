// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package textdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"codeberg.org/pixivfe/tmplgettext/message"
	"codeberg.org/pixivfe/tmplgettext/scan"
)

func TestRegistryRejectsDuplicateFunction(t *testing.T) {
	t.Parallel()

	r := NewRegistry(scan.DialectV2, nil)

	require.NoError(t, r.Register(New(Config{Lexicon: "app", Function: "loc"})))

	err := r.Register(New(Config{Lexicon: "other", Function: "loc"}))
	require.ErrorIs(t, err, ErrDuplicateFunction)

	require.NoError(t, r.Register(New(Config{Lexicon: "admin", Function: "adminloc"})))

	d, ok := r.Domain("adminloc")
	require.True(t, ok)
	assert.Equal(t, "admin", d.Lexicon())
}

func TestRegistryScannerFor(t *testing.T) {
	t.Parallel()

	r := NewRegistry(scan.DialectV2, nil)
	d := New(Config{Lexicon: "app", Function: "loc"})

	require.NoError(t, r.Register(d))

	s, err := r.ScannerFor(d)
	require.NoError(t, err)

	sites, err := s.ScanFile("page.tt", "[% loc('x') %]")
	require.NoError(t, err)
	assert.Len(t, sites, 1)
}

func TestDomainTranslate(t *testing.T) {
	t.Parallel()

	d := New(Config{
		Lexicon:     "app",
		Function:    "loc",
		DefaultLang: language.English,
	})

	got, err := d.Translate(message.Call{}, "Hi {name}", message.Params{"name": "World"})
	require.NoError(t, err)
	assert.Equal(t, "Hi World", got)

	got, err = d.Translate(message.Call{}, "one item|{_count} items", 4)
	require.NoError(t, err)
	assert.Equal(t, "4 items", got)
}

func TestDomainFilter(t *testing.T) {
	t.Parallel()

	d := New(Config{Lexicon: "app", Function: "loc"})

	bound := d.Filter(message.Call{}, message.Params{"name": "World"})

	got, err := bound.Apply("Hi {name}")
	require.NoError(t, err)
	assert.Equal(t, "Hi World", got)
}

func TestDomainInheritsRegistryScope(t *testing.T) {
	t.Parallel()

	r := NewRegistry(scan.DialectV2, message.MapScope{"name": "Ambient"})
	d := New(Config{Lexicon: "app", Function: "loc"})

	require.NoError(t, r.Register(d))

	got, err := d.Translate(message.Call{}, "Hi {name}")
	require.NoError(t, err)
	assert.Equal(t, "Hi Ambient", got)

	// A call-supplied scope wins over the registry's.
	got, err = d.Translate(message.Call{Scope: message.MapScope{"name": "Own"}}, "Hi {name}")
	require.NoError(t, err)
	assert.Equal(t, "Hi Own", got)
}

// staticDomain substitutes the default Domain implementation to confirm the
// registry dispatches through the capability interface alone.
type staticDomain struct{ fn string }

func (s *staticDomain) Function() string   { return s.fn }
func (s *staticDomain) Lexicon() string    { return "static" }
func (s *staticDomain) ExpectedIn() string { return "" }

func (s *staticDomain) Translate(_ message.Call, msgid string, _ ...any) (string, error) {
	return "[" + msgid + "]", nil
}

func (s *staticDomain) Filter(call message.Call, args ...any) *message.BoundFilter {
	return message.NewFormatter(nil, language.Und).Bind(call, args...)
}

func TestRegistryAcceptsCustomImplementations(t *testing.T) {
	t.Parallel()

	r := NewRegistry(scan.DialectV1, nil)

	require.NoError(t, r.Register(&staticDomain{fn: "xl"}))

	d, ok := r.Domain("xl")
	require.True(t, ok)

	got, err := d.Translate(message.Call{}, "msg")
	require.NoError(t, err)
	assert.Equal(t, "[msg]", got)
}
