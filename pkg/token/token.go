// Package token defines the Token value produced by both tokenizer
// generations (pkg/tokenstream and pkg/tokenizer) and consumed by
// pkg/statemachine and pkg/parser.
package token

import (
	"fmt"
	"math"

	"github.com/shapestone/lexengine/pkg/position"
)

// Kind is an integer token-kind id; user grammars map ids to their own
// enums via a Registry. ErrorKind is reserved for the tokenizer's
// unrecognized-byte token (SPEC_FULL.md §4.3 step 3).
type Kind uint32

// ErrorKind is the reserved id math.MaxUint32 used for error tokens.
const ErrorKind Kind = math.MaxUint32

// Token is the result of a successful pattern match: a kind, a source
// position (of the token's first byte), and the matched text. Text borrows
// from the input buffer on the zero-alloc path (pkg/tokenstream) and owns a
// pool-allocated copy on the allocating path (pkg/tokenizer) — see
// SPEC_FULL.md §3, Ownership.
type Token struct {
	Kind Kind
	Pos  position.Position
	Text []byte
}

// String renders the token for diagnostics and test failure messages.
func (t Token) String() string {
	return fmt.Sprintf("[%s %s %q]", KindName(t.Kind), t.Pos, t.Text)
}

// IsError reports whether this is the reserved unrecognized-byte token.
func (t Token) IsError() bool {
	return t.Kind == ErrorKind
}

// Registry assigns stable Kind ids to user-declared token names and
// interns the names themselves, avoiding repeated allocation of the same
// short string across a tokenization run (grounded on the teacher's
// pkg/ast/intern.go string interner).
type Registry struct {
	names []string
	ids   map[string]Kind
}

// NewRegistry constructs an empty token-kind registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]Kind)}
}

// Define assigns (or returns the existing) Kind id for name.
func (r *Registry) Define(name string) Kind {
	if id, ok := r.ids[name]; ok {
		return id
	}
	interned := intern(name)
	id := Kind(len(r.names))
	r.names = append(r.names, interned)
	r.ids[interned] = id
	return id
}

// Lookup returns the Kind id for an already-defined name.
func (r *Registry) Lookup(name string) (Kind, bool) {
	id, ok := r.ids[name]
	return id, ok
}

// Name returns the declared name for id, or a synthetic name for
// ErrorKind / unknown ids.
func (r *Registry) Name(id Kind) string {
	if id == ErrorKind {
		return "Error"
	}
	if int(id) < len(r.names) {
		return r.names[id]
	}
	return fmt.Sprintf("Kind(%d)", id)
}

// KindName renders a Kind without requiring a Registry — used by Token's
// String() method and diagnostics where no user registry is in scope.
func KindName(id Kind) string {
	if id == ErrorKind {
		return "Error"
	}
	return fmt.Sprintf("Kind(%d)", id)
}
