// Package tokenizer implements the allocating tokenizer generation from
// SPEC_FULL.md §4.3: Tokenizer drives a pkg/bytestream.Stream (which may
// grow or compact its buffer as chunks arrive) and copies every matched
// token's bytes into a pkg/pool.Arena, so tokens stay valid across a
// Stream.Append that would otherwise invalidate a zero-copy slice.
//
// The declared-order matching loop is adapted from the teacher's
// Tokenizer.NextToken (pkg/tokenizer/tokens.go): try each rule against the
// stream's buffered bytes, take the first non-empty match, and advance.
// Where the teacher rewinds a per-matcher rune cursor on failure, this
// generation asks pkg/lexrules.Table to evaluate every rule against a
// single buffered window up front (patterns are total, so no speculative
// stream consumption or rewinding is ever needed).
package tokenizer

import (
	"github.com/shapestone/lexengine/pkg/bytestream"
	"github.com/shapestone/lexengine/pkg/lexrules"
	"github.com/shapestone/lexengine/pkg/pool"
	"github.com/shapestone/lexengine/pkg/token"
)

// Tokenizer drives a bytestream.Stream against a lexrules.Table, copying
// each matched token's text into an Arena it owns.
type Tokenizer struct {
	table  *lexrules.Table
	stream *bytestream.Stream
	arena  *pool.Arena
}

// New constructs a Tokenizer reading from stream according to table. The
// returned Tokenizer owns a pooled Arena; call Close to return it.
func New(table *lexrules.Table, stream *bytestream.Stream) *Tokenizer {
	return &Tokenizer{table: table, stream: stream, arena: pool.Get()}
}

// Close returns the Tokenizer's arena to the pool. Tokens previously
// produced by this Tokenizer must not be used afterward.
func (tz *Tokenizer) Close() {
	pool.Put(tz.arena)
	tz.arena = nil
}

// window materializes every currently-buffered unread byte as a plain
// slice, so pkg/pattern (which matches against []byte, not a Stream) can
// evaluate rules against it. The stream's internal buffer may grow past
// what was available on a prior call, so callers re-window after a failed
// edge-of-buffer match.
func (tz *Tokenizer) window() []byte {
	var buf []byte
	for i := 0; ; i++ {
		b, ok := tz.stream.PeekAt(i)
		if !ok {
			break
		}
		buf = append(buf, b)
	}
	return buf
}

// Next scans and returns the next token, or false if none is available
// right now. An unrecognized byte yields a single-byte token.ErrorKind
// token so callers always make forward progress, per SPEC_FULL.md §4.3
// step 3.
//
// "false" covers two distinct cases a chunked caller must tell apart:
// genuine end of input, and a match that reached the end of what's
// currently buffered on a stream that may still receive more via Append
// (Stream.Finished reports false). In the latter case the match is
// withheld rather than emitted, since more bytes could extend it — e.g.
// ProcessChunk("he") must not emit a token for "he" when "llo" is still
// to come (spec.md Scenario D). The withheld match is retried, and
// eventually flushed, once FinishChunks calls Stream.Finish.
func (tz *Tokenizer) Next() (token.Token, bool) {
	for {
		if _, ok := tz.stream.Peek(); !ok {
			return token.Token{}, false
		}

		pos := tz.stream.Position()
		buf := tz.window()

		ruleIdx, length, ok := tz.table.Match(buf, 0)

		// A match flush against the end of the buffered window may be
		// truncated by what's been read from the source so far; re-window
		// once more data has arrived (Peek/PeekAt fill the stream's buffer
		// as a side effect) and retry.
		if ok && length == len(buf) {
			grown := tz.window()
			if len(grown) > len(buf) {
				buf = grown
				ruleIdx, length, ok = tz.table.Match(buf, 0)
			}
		}

		if ok && length == len(buf) && !tz.stream.Finished() {
			return token.Token{}, false
		}

		if !ok || length == 0 {
			b, _ := tz.stream.Consume()
			return token.Token{
				Kind: token.ErrorKind,
				Pos:  pos,
				Text: tz.arena.Dup([]byte{b}),
			}, true
		}

		rule := tz.table.Rules[ruleIdx]
		text := buf[:length]
		tz.stream.ConsumeCount(length)
		if rule.Skip {
			continue
		}
		return token.Token{
			Kind: rule.Kind,
			Pos:  pos,
			Text: tz.arena.Dup(text),
		}, true
	}
}
