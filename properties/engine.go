package properties

import (
	"go.uber.org/zap"

	"cssopt/compat"
)

// Validator classifies single value atoms. It is implemented by
// cssopt/validator.
type Validator interface {
	IsColor(value string) bool
	IsColorFunction(value string) bool
	IsHexAlphaColor(value string) bool
	IsFunction(value string) bool
	FunctionName(value string) string
	IsURL(value string) bool
	IsImage(value string) bool
	IsUnit(value string) bool
	IsNumber(value string) bool
	IsTime(value string) bool
	IsTimingFunction(value string) bool
	IsIdentifier(value string) bool
	IsGlobal(value string) bool
	IsVariable(value string) bool
	IsKeyword(property, value string) bool
	IsStyleKeyword(value string) bool
	IsWidth(value string) bool
	VendorPrefixes(value string) []string
}

// Options selects which passes run.
type Options struct {
	OverrideProperties  bool
	MergeIntoShorthands bool
	// AllowLonger keeps folds and merges which produce longer output.
	AllowLonger bool
	// SkipProperties lists property names (vendor prefix included) left
	// untouched by all passes.
	SkipProperties []string
}

// DefaultOptions enables all passes.
func DefaultOptions() Options {
	return Options{OverrideProperties: true, MergeIntoShorthands: true}
}

// Engine runs property level optimizations over declaration lists of
// single rules. Engine holds no per call state and may be shared.
type Engine struct {
	log    *zap.Logger
	v      Validator
	compat *compat.Profile
	table  *Table
	opts   Options
	skip   map[string]bool
}

// New creates engine. Nil logger and nil profile are replaced by defaults.
func New(log *zap.Logger, v Validator, p *compat.Profile, opts Options) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if p == nil {
		p = compat.Default()
	}
	e := &Engine{
		log:    log.Named("properties"),
		v:      v,
		compat: p,
		table:  DefaultTable(),
		opts:   opts,
		skip:   make(map[string]bool, len(opts.SkipProperties)),
	}
	for _, name := range opts.SkipProperties {
		e.skip[name] = true
	}
	return e
}

// Table returns descriptor table used by the engine.
func (e *Engine) Table() *Table {
	return e.table
}

func (e *Engine) descriptor(d *Declaration) (*Descriptor, bool) {
	if d.Block || d.IsCustom() || e.skip[d.Property()] {
		return nil, false
	}
	return e.table.Lookup(d.NameRoot)
}

// Optimize runs enabled passes over declarations of one rule and returns
// new list. Input is never modified. Eliminated declarations stay in the
// result marked Unused, see Live.
func (e *Engine) Optimize(decls []Declaration) []Declaration {
	return e.optimize(decls, nil)
}

// Trace is Optimize which also reports every decision made.
func (e *Engine) Trace(decls []Declaration) ([]Declaration, []Decision) {
	rec := &recorder{}
	list := e.optimize(decls, rec)
	return list, rec.decisions
}

func (e *Engine) optimize(decls []Declaration, rec *recorder) []Declaration {
	list := make([]Declaration, len(decls))
	for i := range decls {
		list[i] = decls[i].Clone()
	}

	for i := range list {
		if list[i].Block {
			list[i].Nested = e.optimize(list[i].Nested, rec)
		}
	}

	e.populate(list)
	if e.opts.OverrideProperties {
		e.overrideProperties(list, rec)
	}
	if e.opts.MergeIntoShorthands {
		list = e.mergeIntoShorthands(list, rec)
	}
	e.restoreDirty(list)
	return list
}

// populate decomposes shorthands into components.
func (e *Engine) populate(list []Declaration) {
	for i := range list {
		d := &list[i]
		desc, ok := e.descriptor(d)
		if !ok || !desc.Shorthand() || d.Unused {
			continue
		}
		d.Shorthand = true
		d.Multiplex = desc.Family.Multiplexed() && hasSeparator(d.Value, AtomComma)
		components, err := e.BreakUp(d)
		if err != nil {
			e.log.Debug("Shorthand left as is", zap.String("property", d.Name), zap.String("value", d.ValueString()), zap.Error(err))
			d.Components = nil
			continue
		}
		d.Components = components
	}
}

func (e *Engine) restoreDirty(list []Declaration) {
	for i := range list {
		d := &list[i]
		if d.Unused || !d.dirty || d.Components == nil {
			continue
		}
		d.Value = e.Restore(d)
		d.dirty = false
	}
}
