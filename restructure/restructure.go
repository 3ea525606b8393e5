// Package restructure runs rule level optimizations over a parsed
// stylesheet: per rule property optimization, duplicate removal and merging
// of rules sharing selectors or bodies.
package restructure

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"cssopt/css"
	"cssopt/properties"
)

// Optimizer is the property level engine, implemented by
// properties.Engine.
type Optimizer interface {
	Optimize(decls []properties.Declaration) []properties.Declaration
	CanReorder(l, r []properties.Placed) bool
}

// Options selects rule level passes. Property level optimization of every
// rule is always performed.
type Options struct {
	RemoveDuplicates bool // drop earlier copies of identical rules
	MergeAdjacent    bool // merge neighbours with the same selectors or bodies
	MergeNonAdjacent bool // move rule forward into a later rule with the same selectors
	Restructure      bool // move rule forward into a later rule with the same body
}

// DefaultOptions enables all passes.
func DefaultOptions() Options {
	return Options{RemoveDuplicates: true, MergeAdjacent: true, MergeNonAdjacent: true, Restructure: true}
}

// Stats summarizes a single Optimize call.
type Stats struct {
	RulesIn         int
	RulesOut        int
	DeclarationsIn  int
	DeclarationsOut int
	DuplicateRules  int
	MergedRules     int
	EmptyRules      int
}

// Restructurer applies rule level passes. It holds no per call state.
type Restructurer struct {
	log    *zap.Logger
	engine Optimizer
	opts   Options
}

// New creates restructurer on top of property engine.
func New(log *zap.Logger, engine Optimizer, opts Options) *Restructurer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Restructurer{log: log.Named("restructure"), engine: engine, opts: opts}
}

// Optimize returns optimized copy of the stylesheet. Input is not modified.
func (r *Restructurer) Optimize(sheet *css.Stylesheet) (*css.Stylesheet, Stats) {
	var st Stats
	st.RulesIn, st.DeclarationsIn = count(sheet.Items)

	out := sheet.Clone()
	out.Items = r.items(out.Items, false, &st)

	st.RulesOut, st.DeclarationsOut = count(out.Items)
	r.log.Debug("Stylesheet restructured",
		zap.Int("rules", st.RulesOut),
		zap.Int("removed", st.RulesIn-st.RulesOut),
		zap.Int("declarations", st.DeclarationsOut),
		zap.Int("merged", st.MergedRules),
		zap.Int("duplicates", st.DuplicateRules),
	)
	return out, st
}

// items optimizes list of sibling items. Rules inside keyframes get their
// properties optimized but are never merged.
func (r *Restructurer) items(items []css.Item, keyframes bool, st *Stats) []css.Item {
	for i := range items {
		switch item := items[i]; {
		case item.Rule != nil:
			item.Rule.Declarations = r.optimize(item.Rule.Declarations)
		case item.Block != nil && !item.Block.HoldsDeclarations():
			item.Block.Items = r.items(item.Block.Items, item.Block.Keyframes(), st)
		}
	}

	if !keyframes {
		if r.opts.RemoveDuplicates {
			items = r.removeDuplicates(items, st)
		}
		if r.opts.MergeAdjacent {
			items = r.mergeAdjacent(items, st)
		}
		if r.opts.MergeNonAdjacent {
			items = r.mergeNonAdjacent(items, sameSelectors, st)
		}
		if r.opts.Restructure {
			items = r.mergeNonAdjacent(items, sameBodies, st)
		}
		if r.opts.MergeAdjacent && (r.opts.MergeNonAdjacent || r.opts.Restructure) {
			items = r.mergeAdjacent(items, st)
		}
	}
	return r.removeEmpty(items, st)
}

func (r *Restructurer) optimize(decls []properties.Declaration) []properties.Declaration {
	return properties.Live(r.engine.Optimize(decls))
}

// removeDuplicates keeps only the last of identical sibling rules.
func (r *Restructurer) removeDuplicates(items []css.Item, st *Stats) []css.Item {
	last := make(map[string]int)
	for i, item := range items {
		if item.Rule != nil {
			last[ruleKey(item.Rule)] = i
		}
	}

	out := make([]css.Item, 0, len(items))
	for i, item := range items {
		if item.Rule != nil && last[ruleKey(item.Rule)] != i {
			r.log.Debug("Removed duplicate rule", zap.String("selector", item.Rule.SelectorText()), zap.Stringer("position", item.Rule.Position))
			st.DuplicateRules++
			continue
		}
		out = append(out, item)
	}
	return out
}

// mergeAdjacent joins neighbour rules having the same selectors or the same
// body.
func (r *Restructurer) mergeAdjacent(items []css.Item, st *Stats) []css.Item {
	out := make([]css.Item, 0, len(items))
	for _, item := range items {
		n := len(out)
		if n == 0 || item.Rule == nil || out[n-1].Rule == nil {
			out = append(out, item)
			continue
		}

		prev, cur := out[n-1].Rule, item.Rule
		switch {
		case sameSelectors(prev, cur):
			prev.Declarations = r.optimize(append(slices.Clone(prev.Declarations), cur.Declarations...))
		case sameBodies(prev, cur):
			prev.Selectors = union(prev.Selectors, cur.Selectors)
		default:
			out = append(out, item)
			continue
		}
		r.log.Debug("Merged adjacent rules", zap.String("selector", prev.SelectorText()), zap.Stringer("position", cur.Position))
		st.MergedRules++
	}
	return out
}

// mergeNonAdjacent moves rule forward into the next matching rule when
// every rule in between may be reordered with it.
func (r *Restructurer) mergeNonAdjacent(items []css.Item, match func(l, r *css.Rule) bool, st *Stats) []css.Item {
	removed := make([]bool, len(items))
	for i := range items {
		left := items[i].Rule
		if left == nil || removed[i] {
			continue
		}

		for j := i + 1; j < len(items); j++ {
			right := items[j].Rule
			if right == nil || removed[j] || !match(left, right) {
				continue
			}
			if !r.canMove(left, items[i+1:j], removed[i+1:j]) {
				break
			}

			if sameSelectors(left, right) {
				right.Declarations = r.optimize(append(slices.Clone(left.Declarations), right.Declarations...))
			} else {
				right.Selectors = union(left.Selectors, right.Selectors)
			}
			r.log.Debug("Merged non adjacent rules",
				zap.String("selector", right.SelectorText()),
				zap.Stringer("from", left.Position),
				zap.Stringer("into", right.Position),
			)
			removed[i] = true
			st.MergedRules++
			break
		}
	}

	out := make([]css.Item, 0, len(items))
	for i, item := range items {
		if !removed[i] {
			out = append(out, item)
		}
	}
	return out
}

// canMove reports whether rule may be moved past all between items.
func (r *Restructurer) canMove(rule *css.Rule, between []css.Item, removed []bool) bool {
	moving := placed(rule)
	for i, item := range between {
		if removed[i] {
			continue
		}
		for _, other := range (&css.Stylesheet{Items: []css.Item{item}}).Rules() {
			if !r.engine.CanReorder(moving, placed(other)) {
				return false
			}
		}
	}
	return true
}

// removeEmpty drops rules without declarations and blocks without content.
func (r *Restructurer) removeEmpty(items []css.Item, st *Stats) []css.Item {
	out := make([]css.Item, 0, len(items))
	for _, item := range items {
		switch {
		case item.Rule != nil && len(item.Rule.Declarations) == 0:
			st.EmptyRules++
			continue
		case item.Block != nil && len(item.Block.Items) == 0 && len(item.Block.Declarations) == 0:
			continue
		}
		out = append(out, item)
	}
	return out
}

// placed pairs every declaration of the rule with every selector of it.
func placed(rule *css.Rule) []properties.Placed {
	out := make([]properties.Placed, 0, len(rule.Selectors)*len(rule.Declarations))
	for _, sel := range rule.Selectors {
		spec := css.Specificity(sel)
		for _, d := range rule.Declarations {
			out = append(out, properties.Placed{Declaration: d, Selector: sel, Specificity: spec})
		}
	}
	return out
}

func ruleKey(rule *css.Rule) string {
	return selectorKey(rule) + "{" + rule.BodyText() + "}"
}

// selectorKey ignores selector order.
func selectorKey(rule *css.Rule) string {
	sels := slices.Clone(rule.Selectors)
	slices.Sort(sels)
	return strings.Join(slices.Compact(sels), ",")
}

func sameSelectors(l, r *css.Rule) bool {
	return selectorKey(l) == selectorKey(r)
}

func sameBodies(l, r *css.Rule) bool {
	if len(l.Declarations) == 0 || !mergeable(l) || !mergeable(r) {
		return false
	}
	return l.BodyText() == r.BodyText()
}

// mergeable rejects selectors browsers may not understand. One unknown
// selector invalidates the whole list it is joined into.
func mergeable(rule *css.Rule) bool {
	for _, sel := range rule.Selectors {
		if strings.Contains(sel, ":-") {
			return false
		}
	}
	return true
}

func union(a, b []string) []string {
	out := slices.Clone(a)
	for _, s := range b {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func count(items []css.Item) (rules, decls int) {
	for _, rule := range (&css.Stylesheet{Items: items}).Rules() {
		rules++
		decls += len(rule.Declarations)
	}
	return rules, decls
}
