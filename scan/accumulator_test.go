// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package scan

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore captures Store calls in order for assertions.
type recordingStore struct {
	calls   []string
	written bool
	err     error
}

func (r *recordingStore) Store(domain, file string, line int, msgid, plural string) {
	r.calls = append(r.calls, fmt.Sprintf("%s %s:%d %q %q", domain, file, line, msgid, plural))
}

func (r *recordingStore) Write() error {
	r.written = true

	return r.err
}

func TestAccumulatorMergesDuplicates(t *testing.T) {
	t.Parallel()

	a := NewAccumulator()

	a.Add("app", CallSite{File: "a.tt", Line: 3, Msgid: "Sign in"})
	a.Add("app", CallSite{File: "b.tt", Line: 7, Msgid: "Sign in"})
	a.Add("app", CallSite{File: "a.tt", Line: 9, Msgid: "Sign out"})

	assert.Equal(t, 3, a.Found())

	recs := a.Records("app")
	require.Len(t, recs, 2)

	assert.Equal(t, "Sign in", recs[0].Msgid)
	assert.Equal(t, []Location{{File: "a.tt", Line: 3}, {File: "b.tt", Line: 7}}, recs[0].Locations)

	assert.Equal(t, "Sign out", recs[1].Msgid)
	assert.Len(t, recs[1].Locations, 1)
}

func TestAccumulatorPluralPresenceSplitsIdentity(t *testing.T) {
	t.Parallel()

	a := NewAccumulator()

	a.Add("app", CallSite{File: "a.tt", Line: 1, Msgid: "item"})
	a.Add("app", CallSite{File: "a.tt", Line: 2, Msgid: "item", Plural: "items", HasPlural: true})

	recs := a.Records("app")
	require.Len(t, recs, 2)
	assert.False(t, recs[0].HasPlural)
	assert.True(t, recs[1].HasPlural)
}

func TestAccumulatorFlush(t *testing.T) {
	t.Parallel()

	a := NewAccumulator()

	a.Add("app", CallSite{File: "a.tt", Line: 1, Msgid: "one", Plural: "many", HasPlural: true})
	a.Add("app", CallSite{File: "b.tt", Line: 2, Msgid: "one", Plural: "many", HasPlural: true})
	a.Add("admin", CallSite{File: "c.tt", Line: 5, Msgid: "two"})

	st := &recordingStore{}

	require.NoError(t, a.Flush(st))
	assert.True(t, st.written)

	assert.Equal(t, []string{
		`app a.tt:1 "one" "many"`,
		`app b.tt:2 "one" "many"`,
		`admin c.tt:5 "two" ""`,
	}, st.calls)
}

func TestAccumulatorFlushPropagatesWriteError(t *testing.T) {
	t.Parallel()

	a := NewAccumulator()
	a.Add("app", CallSite{File: "a.tt", Line: 1, Msgid: "x"})

	wantErr := errors.New("disk full")
	st := &recordingStore{err: wantErr}

	require.ErrorIs(t, a.Flush(st), wantErr)
}

func TestScanFeedsAccumulatorIdempotently(t *testing.T) {
	t.Parallel()

	s := mustScanner(t, DialectV2)
	text := "[% loc('x') %]\n[% loc('x') %]\n[% loc('y|ys') %]"

	scanInto := func() *Accumulator {
		a := NewAccumulator()

		sites, err := s.ScanFile("page.tt", text)
		require.NoError(t, err)

		for _, cs := range sites {
			a.Add("app", cs)
		}

		return a
	}

	first := scanInto()
	second := scanInto()

	assert.Equal(t, first.Records("app"), second.Records("app"))
	assert.Equal(t, 3, first.Found())
	require.Len(t, first.Records("app"), 2)
}
