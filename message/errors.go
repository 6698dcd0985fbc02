// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package message

import "errors"

// Call-shape violations are programmer errors and fail the render loudly.
var (
	// ErrCountRequired: the msgid has a plural half, so the call must supply
	// a count via the "_count" named parameter or, for the function shape,
	// the first positional argument.
	ErrCountRequired = errors.New("message: counted msgid invoked without a count")

	// ErrUnexpectedCount: the msgid has no plural half but a count was
	// supplied.
	ErrUnexpectedCount = errors.New("message: msgid without plural invoked with a count")

	// ErrSuperfluousParams: positional arguments remain after the count was
	// consumed; the caller likely confused the function and filter shapes.
	ErrSuperfluousParams = errors.New("message: superfluous positional parameters")
)

// Modifier failures. These are recoverable: the formatter logs them and
// inserts the unmodified value.
var (
	ErrUnknownModifier = errors.New("message: unknown modifier")
	ErrNotNumeric      = errors.New("message: value is not numeric")
	ErrBadDateTime     = errors.New("message: unrecognized date/time value")
)
