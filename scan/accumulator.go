// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package scan

// Location is one source position of a message.
type Location struct {
	File string
	Line int
}

// Record is a normalized message: every call-site with the same msgid and
// plural presence in a domain merges into one record with an ordered
// location list. Records are handed to the Store and then discarded; the
// accumulator keeps no long-term ownership.
type Record struct {
	Domain    string
	Msgid     string
	Plural    string
	HasPlural bool

	// Locations is never empty.
	Locations []Location
}

// Store is the external catalog collaborator. It receives one Store call per
// message location during Flush and a terminal Write. The on-disk format,
// merge behavior, and charset handling are entirely its concern.
type Store interface {
	Store(domain, file string, line int, msgid, plural string)
	Write() error
}

// recordKey identifies a record within a domain. Plural presence is part of
// the identity: a counted and an uncounted use of the same text are distinct
// messages.
type recordKey struct {
	msgid     string
	hasPlural bool
}

// Accumulator collects call-sites across the files of one extraction run,
// keyed by domain. Flushing is deferred until the run is complete, so a
// failed file never leaves a domain partially written.
type Accumulator struct {
	domains     map[string]map[recordKey]*Record
	order       map[string][]recordKey
	domainOrder []string
	found       int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		domains: make(map[string]map[recordKey]*Record),
		order:   make(map[string][]recordKey),
	}
}

// Add merges one call-site into domain. Duplicate msgids append a location
// to the existing record instead of creating a new one.
func (a *Accumulator) Add(domain string, cs CallSite) {
	a.found++

	recs, ok := a.domains[domain]
	if !ok {
		recs = make(map[recordKey]*Record)
		a.domains[domain] = recs
		a.domainOrder = append(a.domainOrder, domain)
	}

	key := recordKey{msgid: cs.Msgid, hasPlural: cs.HasPlural}

	rec, ok := recs[key]
	if !ok {
		rec = &Record{
			Domain:    domain,
			Msgid:     cs.Msgid,
			Plural:    cs.Plural,
			HasPlural: cs.HasPlural,
		}
		recs[key] = rec
		a.order[domain] = append(a.order[domain], key)
	}

	rec.Locations = append(rec.Locations, Location{File: cs.File, Line: cs.Line})
}

// Found returns the number of call-sites added so far.
func (a *Accumulator) Found() int {
	return a.found
}

// Records returns the accumulated records of domain in first-seen order.
func (a *Accumulator) Records(domain string) []*Record {
	keys := a.order[domain]

	out := make([]*Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, a.domains[domain][k])
	}

	return out
}

// Domains returns the domain names with at least one record, in first-seen
// order.
func (a *Accumulator) Domains() []string {
	out := make([]string, len(a.domainOrder))
	copy(out, a.domainOrder)

	return out
}

// Flush hands every accumulated record to st, one Store call per location,
// then issues the terminal Write. Call only after all files of the run have
// been scanned.
func (a *Accumulator) Flush(st Store) error {
	for _, domain := range a.Domains() {
		for _, rec := range a.Records(domain) {
			for _, loc := range rec.Locations {
				st.Store(domain, loc.File, loc.Line, rec.Msgid, rec.Plural)
			}
		}
	}

	return st.Write()
}
