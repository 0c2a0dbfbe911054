// Package tokenstream implements the zero-allocation tokenizer generation
// from SPEC_FULL.md §4.3: TokenStream borrows its input slice end to end and
// every Token it emits borrows Text straight out of that slice, so a caller
// that only needs to scan once (e.g. a syntax highlighter) pays no
// per-token allocation.
//
// This generalizes the teacher's historical internal/tokens +
// internal/streams split (a zero-copy lineage kept alongside the later
// SWAR-accelerated pkg/tokenizer) into a single rule-table-driven type built
// on pkg/lexrules and pkg/pattern.
package tokenstream

import (
	"github.com/shapestone/lexengine/pkg/lexrules"
	"github.com/shapestone/lexengine/pkg/position"
	"github.com/shapestone/lexengine/pkg/token"
)

// TokenStream scans a borrowed byte slice against a lexrules.Table,
// producing Tokens whose Text aliases the input. The input must outlive
// every Token produced.
type TokenStream struct {
	table *lexrules.Table
	input []byte
	pos   int
	line  position.Position
}

// New constructs a TokenStream over input using table's rules.
func New(table *lexrules.Table, input []byte) *TokenStream {
	return &TokenStream{table: table, input: input, line: position.Start}
}

// Position returns the stream's current source position.
func (ts *TokenStream) Position() position.Position {
	return ts.line
}

// Offset returns the stream's current byte offset into input.
func (ts *TokenStream) Offset() int {
	return ts.pos
}

// AtEnd reports whether every byte of input has been consumed.
func (ts *TokenStream) AtEnd() bool {
	return ts.pos >= len(ts.input)
}

// Next returns the next token, skipping Skip rule matches (e.g.
// whitespace) without emitting them. It returns false once the stream is
// exhausted. A byte that no rule matches is returned as a single-byte
// token.ErrorKind token, per SPEC_FULL.md §4.3 step 3, so a caller can
// always make forward progress.
func (ts *TokenStream) Next() (token.Token, bool) {
	for {
		if ts.AtEnd() {
			return token.Token{}, false
		}

		start := ts.pos
		startPos := ts.line

		ruleIdx, length, ok := ts.table.Match(ts.input, ts.pos)
		if !ok {
			length = 1
			ts.advance(length)
			return token.Token{
				Kind: token.ErrorKind,
				Pos:  startPos,
				Text: ts.input[start : start+1],
			}, true
		}

		rule := ts.table.Rules[ruleIdx]
		ts.advance(length)
		if rule.Skip {
			continue
		}
		return token.Token{
			Kind: rule.Kind,
			Pos:  startPos,
			Text: ts.input[start : start+length],
		}, true
	}
}

func (ts *TokenStream) advance(n int) {
	ts.line = position.AdvanceBytes(ts.line, ts.input[ts.pos:ts.pos+n])
	ts.pos += n
}
