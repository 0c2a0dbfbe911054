// Package lexrules holds the declared-order token rule table shared by both
// tokenizer generations described in SPEC_FULL.md §4.3: the zero-allocation
// pkg/tokenstream and the allocating pkg/tokenizer. Both walk the same
// []Rule in order and ask pkg/pattern to evaluate each rule's pattern —
// mirroring the teacher's own Tokenizer.NextToken loop over its []Matcher
// (pkg/tokenizer/tokens.go), generalized from a closure-per-rule to a
// data-driven (kind, pattern ID) pair so the table can also be built from a
// YAML grammar (pkg/grammar).
package lexrules

import (
	"github.com/shapestone/lexengine/pkg/pattern"
	"github.com/shapestone/lexengine/pkg/token"
)

// Rule pairs a token kind with the pattern that recognizes it. Rules are
// tried in declared order; the first rule whose pattern matches with
// Length > 0 wins, per SPEC_FULL.md §4.3's "declared-order priority, longest
// match is not sought across rules" resolution.
type Rule struct {
	Kind    token.Kind
	Pattern pattern.ID
	Skip    bool // Skip rules (e.g. whitespace) are matched but not emitted
}

// Table is an ordered set of rules plus the pattern arena they reference.
type Table struct {
	Patterns *pattern.Set
	Rules    []Rule
}

// NewTable constructs an empty Table over a fresh pattern arena.
func NewTable() *Table {
	return &Table{Patterns: pattern.NewSet()}
}

// Add appends a rule to the table.
func (tb *Table) Add(kind token.Kind, id pattern.ID) {
	tb.Rules = append(tb.Rules, Rule{Kind: kind, Pattern: id})
}

// AddSkip appends a rule whose matches are consumed but never emitted as
// tokens, for whitespace/comment-style filler.
func (tb *Table) AddSkip(kind token.Kind, id pattern.ID) {
	tb.Rules = append(tb.Rules, Rule{Kind: kind, Pattern: id, Skip: true})
}

// Match tries each rule in declared order against input starting at pos,
// returning the first rule index whose pattern matches 1 or more bytes.
// Zero-length matches never win: every SPEC_FULL.md pattern is total (Until
// and ZeroOrMore always "succeed"), so treating a zero-length match as a
// token would loop forever without consuming input.
func (tb *Table) Match(input []byte, pos int) (ruleIndex int, length int, ok bool) {
	for i, r := range tb.Rules {
		res := tb.Patterns.Eval(r.Pattern, input, pos)
		if res.Matched && res.Length > 0 {
			return i, res.Length, true
		}
	}
	return 0, 0, false
}
