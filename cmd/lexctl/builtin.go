package main

import (
	"fmt"

	"github.com/shapestone/lexengine/internal/chartable"
	"github.com/shapestone/lexengine/pkg/grammar"
)

// builtinGrammar resolves a named built-in grammar without requiring a
// -grammar YAML file, so the binary is self-demonstrating out of the box.
func builtinGrammar(name string) (*grammar.Config, error) {
	switch name {
	case "words":
		return wordsGrammar()
	case "expr":
		return exprGrammar()
	default:
		return nil, fmt.Errorf("unknown built-in grammar %q (want words, expr)", name)
	}
}

// wordsGrammar mirrors spec.md Scenario A: runs of lowercase letters and
// digits as "word"/"number" tokens, whitespace skipped, with a single
// accepting state that simply loops on either token kind.
func wordsGrammar() (*grammar.Config, error) {
	b := grammar.NewBuilder()
	p := b.Patterns()

	word := p.OneOrMore(p.Class(chartable.AlphaLower))
	number := p.OneOrMore(p.Class(chartable.Digit))
	ws := p.OneOrMore(p.Class(chartable.Whitespace))

	b.Token("word", word)
	b.Token("number", number)
	b.SkipToken("whitespace", ws)

	b.State("scan").Initial("scan")
	b.On("word").To("scan")
	b.On("number").To("scan")

	return b.Build()
}

// exprGrammar mirrors spec.md Scenario E: a flat "number (op number)*"
// expression grammar with a parenthesis token that is lexically recognized
// but has no wired transition, so an unbalanced "(" or ")" surfaces as an
// UnexpectedToken for -mode normal/lenient to recover from.
func exprGrammar() (*grammar.Config, error) {
	b := grammar.NewBuilder()
	p := b.Patterns()

	b.SkipToken("whitespace", p.OneOrMore(p.Class(chartable.Whitespace)))
	b.Token("number", p.OneOrMore(p.Class(chartable.Digit)))
	b.Token("plus", p.LitString("+"))
	b.Token("minus", p.LitString("-"))
	b.Token("star", p.LitString("*"))
	b.Token("paren", p.AnyOf([]byte("()")))

	b.State("start").Initial("start")
	b.State("afterNumber")
	b.State("afterOp")

	b.On("number").To("afterNumber")
	b.State("afterNumber").On("plus").To("afterOp")
	b.State("afterNumber").On("minus").To("afterOp")
	b.State("afterNumber").On("star").To("afterOp")
	b.State("afterOp").On("number").To("afterNumber")

	b.SyncToken("plus")
	b.SyncToken("minus")

	return b.Build()
}
