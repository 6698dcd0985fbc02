// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package po renders accumulated message records as gettext POT template
files, one file per domain. It implements the catalog store side of the
extraction pipeline; merging into existing .po catalogs is left to the
standard gettext tooling (msgmerge).
*/
package po

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// key identifies a gettext entry: singular msgid plus optional plural.
type key struct {
	id     string
	plural string
}

type ref struct {
	file string
	line int
}

// Writer collects Store calls per domain and writes one sorted POT file per
// domain on Write. Output is deterministic for a fixed input set apart from
// the creation date header.
type Writer struct {
	dir     string
	refs    map[string]map[key][]ref
	plurals map[string]map[key]string

	// Now supplies the POT-Creation-Date; replaceable in tests.
	Now func() time.Time
}

// NewWriter returns a Writer emitting <domain>.pot files under dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:     dir,
		refs:    make(map[string]map[key][]ref),
		plurals: make(map[string]map[key]string),
	}
}

// Store records one message location. Duplicate (msgid, plural) pairs merge
// into one entry with multiple "#:" references.
func (w *Writer) Store(domain, file string, line int, msgid, plural string) {
	if w.refs[domain] == nil {
		w.refs[domain] = make(map[key][]ref)
		w.plurals[domain] = make(map[key]string)
	}

	k := key{id: msgid, plural: plural}
	w.refs[domain][k] = append(w.refs[domain][k], ref{file: file, line: line})
}

// Stats returns the number of distinct entries per domain.
func (w *Writer) Stats() map[string]int {
	out := make(map[string]int, len(w.refs))
	for domain, entries := range w.refs {
		out[domain] = len(entries)
	}

	return out
}

// Write renders every domain's POT file. A failure for one domain does not
// block the others; all failures are joined into the returned error.
func (w *Writer) Write() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("po: failed to create output directory: %w", err)
	}

	domains := make([]string, 0, len(w.refs))
	for d := range w.refs {
		domains = append(domains, d)
	}

	sort.Strings(domains)

	var errs []error

	for _, domain := range domains {
		path := filepath.Join(w.dir, domain+".pot")
		if err := os.WriteFile(path, []byte(w.Render(domain)), 0o644); err != nil {
			errs = append(errs, fmt.Errorf("po: domain %s: %w", domain, err))
		}
	}

	return errors.Join(errs...)
}

// Render produces the POT text for one domain: a header followed by entries
// sorted by msgid then plural, each with deduplicated, sorted "#:"
// references.
func (w *Writer) Render(domain string) string {
	entries := w.refs[domain]

	keys := make([]key, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].id != keys[j].id {
			return keys[i].id < keys[j].id
		}

		return keys[i].plural < keys[j].plural
	})

	var b strings.Builder

	w.writeHeader(&b, domain)

	for i, k := range keys {
		rs := entries[k]
		sort.Slice(rs, func(i, j int) bool {
			if rs[i].file != rs[j].file {
				return rs[i].file < rs[j].file
			}

			return rs[i].line < rs[j].line
		})

		// After sorting by file and line, duplicates are adjacent.
		fmt.Fprint(&b, "#:")

		lastFile := ""
		lastLine := 0

		for _, r := range rs {
			if r.file != lastFile || r.line != lastLine {
				fmt.Fprintf(&b, " %s:%d", r.file, r.line)

				lastFile = r.file
				lastLine = r.line
			}
		}

		fmt.Fprintln(&b)

		if k.plural != "" {
			fmt.Fprintf(&b, "msgid %q\n", k.id)
			fmt.Fprintf(&b, "msgid_plural %q\n", k.plural)
			fmt.Fprintf(&b, "msgstr[0] \"\"\n")
			fmt.Fprintf(&b, "msgstr[1] \"\"\n")
		} else {
			fmt.Fprintf(&b, "msgid %q\n", k.id)
			fmt.Fprintf(&b, "msgstr \"\"\n")
		}

		if i < len(keys)-1 {
			fmt.Fprintln(&b)
		}
	}

	return b.String()
}

func (w *Writer) writeHeader(b *strings.Builder, domain string) {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	fmt.Fprintln(b, `msgid ""`)
	fmt.Fprintln(b, `msgstr ""`)
	fmt.Fprintf(b, "\"Project-Id-Version: %s\\n\"\n", domain)
	fmt.Fprintf(b, "\"POT-Creation-Date: %s\\n\"\n", now().UTC().Format("2006-01-02 15:04+0000"))
	fmt.Fprintln(b, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(b, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(b, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(b, `"Plural-Forms: nplurals=2; plural=(n != 1);\n"`)
	fmt.Fprintln(b)
}
