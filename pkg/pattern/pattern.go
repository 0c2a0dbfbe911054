// Package pattern implements the algebraic pattern model from SPEC_FULL.md
// §3–§4.1: a closed set of pattern constructors held in an arena and
// evaluated against a byte slice with leftmost-longest, non-backtracking
// semantics.
//
// Patterns are built through a *Set rather than as self-referential
// pointers (see SPEC_FULL.md §9, Design Notes): every constructor appends a
// node to the Set's arena and returns its integer ID, so composite patterns
// reference children by ID and a Set is trivially copyable.
package pattern

import "github.com/shapestone/lexengine/internal/chartable"

// ID indexes a node within a Set. IDs are assigned from 0 in construction
// order.
type ID int

// Kind tags the variant a node holds.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindCharClass
	KindRange
	KindAnyOf
	KindAny
	KindSequence
	KindOneOrMore
	KindZeroOrMore
	KindOptional
	KindUntil
)

// node is one arena entry. Only the fields relevant to Kind are populated;
// the rest stay at their zero value.
type node struct {
	kind     Kind
	lit      []byte
	class    chartable.Class
	lo, hi   byte
	set      []byte
	children []ID // Sequence
	child    ID   // OneOrMore / ZeroOrMore / Optional / Until
}

// Set is an arena of pattern nodes. The zero value is an empty, usable Set.
type Set struct {
	nodes []node
}

// NewSet constructs an empty pattern arena.
func NewSet() *Set {
	return &Set{}
}

func (s *Set) add(n node) ID {
	s.nodes = append(s.nodes, n)
	return ID(len(s.nodes) - 1)
}

// Lit builds a pattern that exactly matches the given bytes.
func (s *Set) Lit(b []byte) ID {
	cp := make([]byte, len(b))
	copy(cp, b)
	return s.add(node{kind: KindLiteral, lit: cp})
}

// LitString is Lit for a string literal.
func (s *Set) LitString(str string) ID {
	return s.Lit([]byte(str))
}

// Class builds a pattern that matches a single byte of class c.
func (s *Set) Class(c chartable.Class) ID {
	return s.add(node{kind: KindCharClass, class: c})
}

// Range builds a pattern that matches a single byte b with lo <= b <= hi.
func (s *Set) Range(lo, hi byte) ID {
	return s.add(node{kind: KindRange, lo: lo, hi: hi})
}

// AnyOf builds a pattern that matches a single byte present in set.
func (s *Set) AnyOf(set []byte) ID {
	cp := make([]byte, len(set))
	copy(cp, set)
	return s.add(node{kind: KindAnyOf, set: cp})
}

// Any builds a pattern that matches any single byte.
func (s *Set) Any() ID {
	return s.add(node{kind: KindAny})
}

// Seq builds a pattern that concatenates its operands in order.
func (s *Set) Seq(ids ...ID) ID {
	cp := make([]ID, len(ids))
	copy(cp, ids)
	return s.add(node{kind: KindSequence, children: cp})
}

// OneOrMore builds a greedy pattern requiring at least one match of inner.
func (s *Set) OneOrMore(inner ID) ID {
	return s.add(node{kind: KindOneOrMore, child: inner})
}

// ZeroOrMore builds a greedy pattern allowing zero matches of inner.
func (s *Set) ZeroOrMore(inner ID) ID {
	return s.add(node{kind: KindZeroOrMore, child: inner})
}

// Optional builds a pattern that matches inner zero or one times.
func (s *Set) Optional(inner ID) ID {
	return s.add(node{kind: KindOptional, child: inner})
}

// Until builds a pattern that consumes bytes until delim would match at the
// current position. It always succeeds.
func (s *Set) Until(delim ID) ID {
	return s.add(node{kind: KindUntil, child: delim})
}

// Kind returns the variant of the node at id.
func (s *Set) Kind(id ID) Kind {
	return s.nodes[id].kind
}
