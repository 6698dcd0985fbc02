// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package message

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the logger used by package message. Missing-key and modifier
// warnings go through it; callers may replace it during setup.
var Logger zerolog.Logger = log.With().Str("sys", "message").Logger()

// warnMissingKey reports a placeholder that resolved to nothing and had no
// default. Rendering continues with an empty substitution.
func warnMissingKey(target, key, format string) {
	Logger.Warn().
		Str("target", target).
		Str("key", key).
		Str("format", format).
		Msg("Missing placeholder value")
}

// warnModifier reports a modifier that failed to apply; the unmodified value
// is inserted instead.
func warnModifier(target, key, format string, err error) {
	Logger.Warn().
		Err(err).
		Str("target", target).
		Str("key", key).
		Str("format", format).
		Msg("Modifier failed")
}
