// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package textdomain binds message domains to the translation function names
used at template call-sites. A domain is a named, independent set of
translatable messages; exactly one domain owns a given function name within
a registry, which is validated at registration time.
*/
package textdomain

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"codeberg.org/pixivfe/tmplgettext/message"
	"codeberg.org/pixivfe/tmplgettext/scan"
)

// ErrDuplicateFunction is returned when two domains claim the same
// translation function name. This is a configuration error; the formatter
// relies on the uniqueness holding.
var ErrDuplicateFunction = errors.New("textdomain: translation function name already registered")

// TextDomain is the capability a domain implementation provides. The default
// implementation is [Domain]; callers may substitute any conforming type.
type TextDomain interface {
	// Function is the call-site function/filter name bound to this domain.
	Function() string

	// Lexicon is the catalog domain the messages belong to.
	Lexicon() string

	// ExpectedIn is the directory the domain's catalogs are expected in.
	ExpectedIn() string

	// Translate is the function call shape.
	Translate(call message.Call, msgid string, args ...any) (string, error)

	// Filter is the filter call shape: it binds the parameters and returns
	// the application stage.
	Filter(call message.Call, args ...any) *message.BoundFilter
}

// Registry holds the domains of one templater instance together with the
// configuration they share: the template dialect and the ambient variable
// scope. Read-only after setup; registration is not safe to interleave with
// concurrent lookups.
type Registry struct {
	dialect    scan.Dialect
	scope      message.Scope
	byFunction map[string]TextDomain
}

func NewRegistry(dialect scan.Dialect, scope message.Scope) *Registry {
	return &Registry{
		dialect:    dialect,
		scope:      scope,
		byFunction: make(map[string]TextDomain),
	}
}

// Register adds d, rejecting function names that are already taken. A
// *Domain additionally receives the registry as its borrowed configuration
// handle.
func (r *Registry) Register(d TextDomain) error {
	fn := d.Function()
	if _, ok := r.byFunction[fn]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateFunction, fn)
	}

	if dd, ok := d.(*Domain); ok {
		dd.reg = r
	}

	r.byFunction[fn] = d

	return nil
}

// Domain returns the domain owning the given function name.
func (r *Registry) Domain(function string) (TextDomain, bool) {
	d, ok := r.byFunction[function]

	return d, ok
}

// Dialect returns the template dialect shared by all registered domains.
func (r *Registry) Dialect() scan.Dialect {
	return r.dialect
}

// Scope returns the shared ambient variable scope; may be nil.
func (r *Registry) Scope() message.Scope {
	return r.scope
}

// ScannerFor builds a call-site scanner for d using the registry's shared
// dialect, so extraction and rendering always agree on the tag grammar.
func (r *Registry) ScannerFor(d TextDomain) (*scan.Scanner, error) {
	return scan.NewScanner(r.dialect, d.Function())
}

// Config describes one Domain.
type Config struct {
	// Lexicon is the catalog domain name.
	Lexicon string

	// Function is the template call-site function/filter name.
	Function string

	// CatalogDir is where the domain's .po catalogs are expected.
	CatalogDir string

	// DefaultLang is the initialization-time default target language, used
	// when a call carries the zero tag. It is never mutated after setup; a
	// per-request language travels in the [message.Call] instead.
	DefaultLang language.Tag

	// Translator resolves msgids to translated format strings; nil renders
	// msgids as written.
	Translator message.Translator
}

// Domain is the default TextDomain implementation.
type Domain struct {
	cfg       Config
	formatter *message.Formatter

	// reg is a borrowed handle to the owning registry, used only to read
	// shared configuration. The registry owns the domain, not the reverse.
	reg *Registry
}

func New(cfg Config) *Domain {
	return &Domain{
		cfg:       cfg,
		formatter: message.NewFormatter(cfg.Translator, cfg.DefaultLang),
	}
}

func (d *Domain) Function() string {
	return d.cfg.Function
}

func (d *Domain) Lexicon() string {
	return d.cfg.Lexicon
}

func (d *Domain) ExpectedIn() string {
	return d.cfg.CatalogDir
}

// Translate formats msgid with positional arguments and an optional trailing
// [message.Params]. A call without its own scope inherits the registry's
// shared ambient scope.
func (d *Domain) Translate(call message.Call, msgid string, args ...any) (string, error) {
	return d.formatter.Format(d.fill(call), msgid, args...)
}

// Filter binds args now and formats a template-captured msgid later.
func (d *Domain) Filter(call message.Call, args ...any) *message.BoundFilter {
	return d.formatter.Bind(d.fill(call), args...)
}

func (d *Domain) fill(call message.Call) message.Call {
	if call.Scope == nil && d.reg != nil {
		call.Scope = d.reg.Scope()
	}

	return call
}
