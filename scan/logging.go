// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package scan

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the logger used by package scan.
var Logger zerolog.Logger = log.With().Str("sys", "scan").Logger()

// warnEntityEscape reports a msgid containing an HTML character-entity
// escape. Translators should receive plain text; escaping is a render-time
// concern. Extraction continues.
func warnEntityEscape(file string, line int, msgid string) {
	Logger.Warn().
		Str("file", file).
		Int("line", line).
		Str("msgid", msgid).
		Msg("HTML entity escape inside msgid")
}
