// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package message

// Scope is the ambient variable lookup a template is rendered against,
// consulted when a placeholder is not covered by the call's own parameters.
// The rendering environment usually already holds the value under the same
// name; requiring authors to re-pass it would be redundant.
type Scope interface {
	// Get resolves a dotted path, e.g. ["product", "price"].
	Get(path []string) (any, bool)
}

// MapScope adapts nested map[string]any data to [Scope].
type MapScope map[string]any

func (m MapScope) Get(path []string) (any, bool) {
	var cur any = map[string]any(m)

	for _, part := range path {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		cur, ok = node[part]
		if !ok {
			return nil, false
		}
	}

	return cur, true
}

// Params are the named parameters of one render call. Keys are matched
// against the raw placeholder path first, then used as the root of a dotted
// traversal.
type Params map[string]any

// resolveValue resolves ph in priority order: named parameters, ambient
// scope, placeholder default. The final bool is false when nothing matched
// and there was no default; the caller emits the missing-key warning and
// substitutes an empty string.
func resolveValue(ph *Placeholder, params Params, scope Scope) (any, bool) {
	if v, ok := lookupParams(ph, params); ok && !empty(v) {
		return v, true
	}

	if scope != nil {
		if v, ok := scope.Get(ph.Path); ok && !empty(v) {
			return v, true
		}
	}

	if ph.HasDefault {
		return ph.Default, true
	}

	return nil, false
}

func lookupParams(ph *Placeholder, params Params) (any, bool) {
	if params == nil {
		return nil, false
	}

	// Exact key match, including dotted keys passed verbatim.
	if v, ok := params[ph.RawPath]; ok {
		return v, true
	}

	if len(ph.Path) < 2 {
		return nil, false
	}

	// Dotted traversal rooted at the first path element.
	root, ok := params[ph.Path[0]]
	if !ok {
		return nil, false
	}

	node, ok := root.(map[string]any)
	if !ok {
		return nil, false
	}

	return MapScope(node).Get(ph.Path[1:])
}

// empty reports whether a resolved value should fall through to the next
// resolution stage.
func empty(v any) bool {
	return v == nil || v == ""
}
