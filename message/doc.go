// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package message implements the runtime half of tmplgettext: it turns a
(possibly translated) format string, a count, and parameter values into the
final localized output.

A format string may contain placeholders in braces:

	Hello {name}!
	{size %d BYTES}
	{published YEAR //unknown}
	{product.price %.2f}

Inside the braces, the first token is a dot-separated variable path, the
following tokens are modifiers applied left to right, and everything after
"//" is a default used when the variable cannot be resolved. Parsing is
total: malformed or empty braces are kept as literal text so a content typo
can never abort a page render.

Messages with a singular and a plural form carry both in one string,
separated by the first unescaped pipe:

	one item|{_count} items

The entry point is [Formatter]. Its Format method implements the positional
"function" call shape; Bind implements the two-stage "filter" shape used when
the message body is captured from template content:

	out, err := f.Format(call, "one item|{_count} items", 3)
	bound := f.Bind(call)
	out, err = bound.Apply("Hello {name}!")

Placeholder values substituted in HTML mode are escaped unless the variable
path ends in the reserved "_html" suffix, which marks a value as already
escaped by the caller.
*/
package message
