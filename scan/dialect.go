// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package scan

import (
	"errors"
	"fmt"
	"regexp"
)

// Dialect selects the tag-delimiter convention of the scanned template text.
type Dialect int

const (
	// DialectV1 accepts "[% ... %]" and "%% ... %%" interchangeably.
	DialectV1 Dialect = 1

	// DialectV2 accepts only "[% ... %]".
	DialectV2 Dialect = 2
)

// ErrUnknownDialect is returned for a dialect outside the supported set.
// It is a configuration error raised before any scanning starts.
var ErrUnknownDialect = errors.New("scan: unknown template dialect")

// tagPattern returns the tag splitter for d. The single capture group is the
// tag content; (?s) lets tags span lines.
func (d Dialect) tagPattern() (*regexp.Regexp, error) {
	switch d {
	case DialectV1:
		return regexp.MustCompile(`(?s)(?:\[%(.*?)%\]|%%(.*?)%%)`), nil
	case DialectV2:
		return regexp.MustCompile(`(?s)\[%(.*?)%\]`), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownDialect, int(d))
	}
}
