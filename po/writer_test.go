// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package po

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozenWriter(dir string) *Writer {
	w := NewWriter(dir)
	w.Now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC) }

	return w
}

func TestRender(t *testing.T) {
	t.Parallel()

	w := frozenWriter(t.TempDir())

	w.Store("app", "b.tt", 7, "Sign in", "")
	w.Store("app", "a.tt", 3, "Sign in", "")
	w.Store("app", "a.tt", 3, "Sign in", "") // duplicate location collapses
	w.Store("app", "a.tt", 9, "one item", "{_count} items")

	got := w.Render("app")

	assert.True(t, strings.HasPrefix(got, "msgid \"\"\nmsgstr \"\"\n"))
	assert.Contains(t, got, "\"Project-Id-Version: app\\n\"\n")
	assert.Contains(t, got, "\"POT-Creation-Date: 2025-01-02 03:04+0000\\n\"\n")
	assert.Contains(t, got, "#: a.tt:3 b.tt:7\nmsgid \"Sign in\"\nmsgstr \"\"\n")
	assert.Contains(t, got, "msgid \"one item\"\nmsgid_plural \"{_count} items\"\nmsgstr[0] \"\"\nmsgstr[1] \"\"\n")

	// Deterministic: rendering twice gives identical bytes.
	assert.Equal(t, got, w.Render("app"))
}

func TestWriteFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := frozenWriter(filepath.Join(dir, "po"))

	w.Store("app", "a.tt", 1, "hello", "")
	w.Store("admin", "b.tt", 2, "bye", "")

	require.NoError(t, w.Write())

	for _, name := range []string{"app.pot", "admin.pot"} {
		data, err := os.ReadFile(filepath.Join(dir, "po", name))
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}

	assert.Equal(t, map[string]int{"app": 1, "admin": 1}, w.Stats())
}

func TestWriteReportsPerDomainFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := frozenWriter(dir)

	w.Store("app", "a.tt", 1, "hello", "")
	w.Store("blocked", "b.tt", 2, "bye", "")

	// Pre-create a directory where the "blocked" domain's file should go so
	// only that domain's write fails.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blocked.pot"), 0o755))

	err := w.Write()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")

	// The healthy domain was still written.
	_, statErr := os.Stat(filepath.Join(dir, "app.pot"))
	require.NoError(t, statErr)
}
