// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package scan implements the build-time half of tmplgettext: it statically
locates translation call-sites inside template text and accumulates them
into message records for the catalog store.

Three call shapes are recognized inside template tags, here shown for the
translation function "loc" in dialect 2:

	[% loc('Sign in') %]               function call
	[% 'Sign in' | loc %]              inline quoted filter
	[% | loc %]Sign in[% END %]        block filter

Dialect 2 delimits tags with "[% %]"; dialect 1 additionally accepts the
interchangeable "%% %%" spelling. A raw msgid may carry a plural half after
the first unescaped pipe.

The [Scanner] walks one file at a time and reports every call-site with its
1-based source line. The [Accumulator] normalizes call-sites into records
keyed by (domain, msgid, plural presence), merging duplicate sites into
location lists, and flushes them to a [Store] only once a run has finished,
so a failed file never partially flushes a domain.
*/
package scan
