package pattern

import "github.com/shapestone/lexengine/internal/chartable"

// MatchResult is the outcome of evaluating a pattern at a position.
type MatchResult struct {
	Matched bool
	Length  int
}

var noMatch = MatchResult{}

func matched(n int) MatchResult {
	return MatchResult{Matched: true, Length: n}
}

// Eval evaluates the pattern id against input starting at pos, per
// SPEC_FULL.md §4.1: leftmost-longest for the given position, total (no
// error return — "no match" is a value), and never advances past
// len(input). Preconditions: 0 <= pos <= len(input).
func (s *Set) Eval(id ID, input []byte, pos int) MatchResult {
	n := &s.nodes[id]
	switch n.kind {
	case KindLiteral:
		return s.evalLiteral(n, input, pos)
	case KindCharClass:
		if pos >= len(input) {
			return noMatch
		}
		if chartable.Classify(input[pos]) == n.class {
			return matched(1)
		}
		return noMatch
	case KindRange:
		if pos >= len(input) {
			return noMatch
		}
		b := input[pos]
		if b >= n.lo && b <= n.hi {
			return matched(1)
		}
		return noMatch
	case KindAnyOf:
		if pos >= len(input) {
			return noMatch
		}
		b := input[pos]
		for _, c := range n.set {
			if c == b {
				return matched(1)
			}
		}
		return noMatch
	case KindAny:
		if pos >= len(input) {
			return noMatch
		}
		return matched(1)
	case KindSequence:
		return s.evalSequence(n, input, pos)
	case KindOneOrMore:
		return s.evalRepeat(n.child, input, pos, 1)
	case KindZeroOrMore:
		return s.evalRepeat(n.child, input, pos, 0)
	case KindOptional:
		r := s.Eval(n.child, input, pos)
		if r.Matched {
			return r
		}
		return matched(0)
	case KindUntil:
		return s.evalUntil(n, input, pos)
	default:
		return noMatch
	}
}

func (s *Set) evalLiteral(n *node, input []byte, pos int) MatchResult {
	switch len(n.lit) {
	case 1, 2, 4, 8:
		if literalEqualFast(input, pos, n.lit) {
			return matched(len(n.lit))
		}
		return noMatch
	default:
		if pos+len(n.lit) > len(input) {
			return noMatch
		}
		for i, b := range n.lit {
			if input[pos+i] != b {
				return noMatch
			}
		}
		return matched(len(n.lit))
	}
}

func (s *Set) evalSequence(n *node, input []byte, pos int) MatchResult {
	total := 0
	cur := pos
	for _, child := range n.children {
		r := s.Eval(child, input, cur)
		if !r.Matched {
			return noMatch
		}
		total += r.Length
		cur += r.Length
	}
	return matched(total)
}

// evalRepeat drives greedy repetition of child starting at pos, requiring at
// least minIterations successful iterations. Per SPEC_FULL.md §3 invariants,
// an iteration that matches zero length terminates the loop regardless of
// minIterations, preventing non-termination on nullable inner patterns.
func (s *Set) evalRepeat(child ID, input []byte, pos int, minIterations int) MatchResult {
	total := 0
	cur := pos
	iterations := 0
	for {
		r := s.Eval(child, input, cur)
		if !r.Matched {
			break
		}
		if r.Length == 0 {
			// A zero-length match terminates the loop without counting as a
			// completed iteration — required to guarantee termination on
			// nullable inner patterns (SPEC_FULL.md §3 invariants).
			break
		}
		total += r.Length
		cur += r.Length
		iterations++
	}
	if iterations < minIterations {
		return noMatch
	}
	return matched(total)
}

// evalUntil advances one byte at a time while delim does not match at the
// current position. Uses a SWAR byte-scan fast path when delim is a
// single-byte literal (SPEC_FULL.md / spec.md §4.1 fast-path requirement).
func (s *Set) evalUntil(n *node, input []byte, pos int) MatchResult {
	delim := &s.nodes[n.child]
	if delim.kind == KindLiteral && len(delim.lit) == 1 {
		idx := findByte(input, pos, delim.lit[0])
		if idx < 0 {
			return matched(len(input) - pos)
		}
		return matched(idx - pos)
	}

	cur := pos
	for cur < len(input) {
		if s.Eval(n.child, input, cur).Matched {
			break
		}
		cur++
	}
	return matched(cur - pos)
}
