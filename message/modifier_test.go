// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package message

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFormatSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec  string
		value any
		want  string
	}{
		{"%d", 42, "42"},
		{"%d", "42", "42"},
		{"%i", 42, "42"},
		{"%05d", 7, "00007"},
		{"%x", 255, "ff"},
		{"%.2f", 3.14159, "3.14"},
		{"%.1f", 10, "10.0"},
		{"%-4s", "ab", "ab  "},
		{"%q", "hi", `"hi"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.spec, func(t *testing.T) {
			t.Parallel()

			got, err := applyFormatSpec(tt.spec, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyFormatSpecBadValue(t *testing.T) {
	t.Parallel()

	_, err := applyFormatSpec("%d", "not a number")
	require.ErrorIs(t, err, ErrNotNumeric)
}

func TestApplyBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value any
		want  string
	}{
		{0, "0.0 B"},
		{1023, "1023.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1572864, "1.5 MB"},
		{1073741824, "1.0 GB"},
		{"2048", "2.0 KB"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			got, err := applyBytes(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyDateTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		spec  ModifierSpec
		value any
		want  string
	}{
		{"year from ISO date", ModifierSpec{Name: "YEAR"}, "2021-05-04", "2021"},
		{"year from datetime", ModifierSpec{Name: "YEAR"}, "2021-05-04 10:11:12", "2021"},
		{"date from epoch int", ModifierSpec{Name: "DATE"}, 0, "1970-01-01"},
		{"date from epoch string", ModifierSpec{Name: "DATE"}, "86400", "1970-01-02"},
		{"time from datetime", ModifierSpec{Name: "TIME"}, "2021-05-04T10:11:12", "10:11:12"},
		{"dt rfc3339 from epoch", ModifierSpec{Name: "DT", Arg: "RFC3339"}, 0, "1970-01-01T00:00:00Z"},
		{"dt datetime", ModifierSpec{Name: "DT", Arg: "DATETIME"}, "2021-05-04T10:11:12", "2021-05-04 10:11:12"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := applyModifier(tt.spec, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyDateTimeBadInput(t *testing.T) {
	t.Parallel()

	_, err := applyModifier(ModifierSpec{Name: "DATE"}, "yesterday-ish")
	require.ErrorIs(t, err, ErrBadDateTime)

	_, err = applyModifier(ModifierSpec{Name: "DT", Arg: "NO_SUCH_LAYOUT"}, 0)
	require.ErrorIs(t, err, ErrUnknownModifier)
}

func TestModifierChainComposesLeftToRight(t *testing.T) {
	t.Parallel()

	// %d first renders the number, BYTES then humanizes the rendered string.
	got, err := applyModifiers([]ModifierSpec{{Spec: "%d"}, {Name: "BYTES"}}, 2048)
	require.NoError(t, err)
	assert.Equal(t, "2.0 KB", got)
}

func TestEmptyChainPassesThrough(t *testing.T) {
	t.Parallel()

	got, err := applyModifiers(nil, 3.5)
	require.NoError(t, err)
	assert.Equal(t, "3.5", got)
}

func TestCustomModifier(t *testing.T) {
	// No t.Parallel: registration mutates the process-wide registry, which
	// is setup-time-only by contract.
	RegisterModifier("SHOUT", func(value any) (string, error) {
		return strings.ToUpper(stringify(value)), nil
	})

	got, err := applyModifiers([]ModifierSpec{{Name: "SHOUT"}}, "quiet")
	require.NoError(t, err)
	assert.Equal(t, "QUIET", got)

	// Built-ins win over custom registrations of the same name.
	RegisterModifier("BYTES", func(any) (string, error) { return "never", nil })

	got, err = applyModifiers([]ModifierSpec{{Name: "BYTES"}}, 1024)
	require.NoError(t, err)
	assert.Equal(t, "1.0 KB", got)
}

func TestUnknownModifier(t *testing.T) {
	t.Parallel()

	_, err := applyModifiers([]ModifierSpec{{Name: "NOPE"}}, 1)
	require.ErrorIs(t, err, ErrUnknownModifier)
}
