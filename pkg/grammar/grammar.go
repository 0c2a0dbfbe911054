// Package grammar provides the fluent configuration builder from
// SPEC_FULL.md §4.6: NewBuilder().Token(name, pattern).State(name).
// On(token).To(next).Action(name)...Build() resolves declared names into
// the pattern.ID / token.Kind / statemachine.StateID integers the rest of
// the engine runs on, returning UnknownToken / UnknownState /
// UnknownAction / NoInitialState if a reference never resolves.
//
// The fluent shape is new (spec.md §6 asks for it directly); the
// resolve-names-to-integers-at-Build-time discipline is carried over from
// the teacher's own pkg/grammar.Grammar.Validate, which likewise walks a
// structure built from string references and reports the first undefined
// one rather than failing eagerly per reference.
package grammar

import (
	"fmt"

	"github.com/shapestone/lexengine/pkg/lexrules"
	"github.com/shapestone/lexengine/pkg/pattern"
	"github.com/shapestone/lexengine/pkg/statemachine"
	"github.com/shapestone/lexengine/pkg/token"
)

// ErrorKind classifies a Builder resolution failure.
type ErrorKind int

const (
	UnknownToken ErrorKind = iota
	UnknownState
	UnknownAction
	NoInitialState
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownToken:
		return "unknown token"
	case UnknownState:
		return "unknown state"
	case UnknownAction:
		return "unknown action"
	case NoInitialState:
		return "no initial state"
	default:
		return "grammar error"
	}
}

// Error reports a single unresolved reference (or missing initial state)
// found while resolving a Builder into a Config.
type Error struct {
	Kind ErrorKind
	Name string
}

func (e *Error) Error() string {
	if e.Name == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Name)
}

// tokenDecl records one Token/SkipToken call in declaration order, which is
// the priority order lexrules.Table.Match tries rules in (SPEC_FULL.md
// §4.3).
type tokenDecl struct {
	name    string
	pattern pattern.ID
	skip    bool
}

// transitionDecl records one On(...).To(...).Action(...) chain, resolved
// against state/token/action names at Build time.
type transitionDecl struct {
	state  string
	token  string
	to     string
	action string
}

// Builder accumulates named tokens, states, and transitions, resolving them
// into runtime configuration at Build.
type Builder struct {
	patterns *pattern.Set

	tokens     []tokenDecl
	tokenIndex map[string]int

	states     []string
	stateIndex map[string]bool
	initial    string
	syncTokens map[string]bool

	transitions []transitionDecl
	curState    string

	actions map[string]statemachine.ActionFunc
}

// NewBuilder constructs an empty Builder over a fresh pattern arena.
func NewBuilder() *Builder {
	return &Builder{
		patterns:   pattern.NewSet(),
		tokenIndex: make(map[string]int),
		stateIndex: make(map[string]bool),
		syncTokens: make(map[string]bool),
		actions:    make(map[string]statemachine.ActionFunc),
	}
}

// Patterns exposes the Builder's pattern arena so a caller can construct
// pattern.IDs (Lit, Class, Seq, ...) to pass to Token/SkipToken.
func (b *Builder) Patterns() *pattern.Set {
	return b.patterns
}

// Token declares a named token kind recognized by p, in declared-match
// order (earlier Token/SkipToken calls take priority — SPEC_FULL.md §4.3).
func (b *Builder) Token(name string, p pattern.ID) *Builder {
	b.tokenIndex[name] = len(b.tokens)
	b.tokens = append(b.tokens, tokenDecl{name: name, pattern: p})
	return b
}

// SkipToken declares a named token kind that is matched but never delivered
// to the state machine (e.g. whitespace).
func (b *Builder) SkipToken(name string, p pattern.ID) *Builder {
	b.tokenIndex[name] = len(b.tokens)
	b.tokens = append(b.tokens, tokenDecl{name: name, pattern: p, skip: true})
	return b
}

// State declares (or re-selects, if already declared) a named state and
// makes it the current state for subsequent On(...) calls.
func (b *Builder) State(name string) *Builder {
	if !b.stateIndex[name] {
		b.stateIndex[name] = true
		b.states = append(b.states, name)
	}
	b.curState = name
	return b
}

// Initial marks name as the machine's starting state. name need not have
// been declared via State yet; Build resolves it.
func (b *Builder) Initial(name string) *Builder {
	b.initial = name
	return b
}

// SyncToken flags a token kind as a synchronization point: a reliable
// resumption anchor Normal/Lenient recovery scans for after an
// UnexpectedToken, per spec.md's GLOSSARY and §4.5.
func (b *Builder) SyncToken(tokenName string) *Builder {
	b.syncTokens[tokenName] = true
	return b
}

// On begins a transition out of the current state on a token named
// tokenName. Must be followed by To (and optionally Action).
func (b *Builder) On(tokenName string) *Builder {
	b.transitions = append(b.transitions, transitionDecl{state: b.curState, token: tokenName})
	return b
}

// To completes the transition begun by On, naming the next state.
func (b *Builder) To(next string) *Builder {
	if len(b.transitions) == 0 {
		return b
	}
	b.transitions[len(b.transitions)-1].to = next
	return b
}

// Action attaches a named action to the transition most recently completed
// with To. The action itself is registered separately via RegisterAction;
// Build rejects (UnknownAction) an action name that was never registered.
func (b *Builder) Action(name string) *Builder {
	if len(b.transitions) == 0 {
		return b
	}
	b.transitions[len(b.transitions)-1].action = name
	return b
}

// RegisterAction binds name to fn, so Config.NewMachine can dispatch it.
// Every action named via Action must be registered here for Build to
// succeed; a caller may still rebind the name later with Machine.OnAction.
func (b *Builder) RegisterAction(name string, fn statemachine.ActionFunc) *Builder {
	b.actions[name] = fn
	return b
}

// Config is the resolved, runtime-ready result of Builder.Build.
type Config struct {
	Patterns  *pattern.Set
	Rules     *lexrules.Table
	States    *statemachine.Table
	Registry  *token.Registry
	SyncKinds []token.Kind
	actions   map[string]statemachine.ActionFunc
}

// Build resolves every declared name into its runtime id, returning the
// first unresolved reference as an *Error. Declaration order of Token /
// SkipToken calls becomes the lexrules.Table's match-priority order.
func (b *Builder) Build() (*Config, error) {
	if b.initial == "" {
		return nil, &Error{Kind: NoInitialState}
	}
	if !b.stateIndex[b.initial] {
		return nil, &Error{Kind: UnknownState, Name: b.initial}
	}

	registry := token.NewRegistry()
	rules := lexrules.NewTable()
	rules.Patterns = b.patterns
	for _, td := range b.tokens {
		kind := registry.Define(td.name)
		if td.skip {
			rules.AddSkip(kind, td.pattern)
		} else {
			rules.Add(kind, td.pattern)
		}
	}

	states := statemachine.NewTable()
	ids := make(map[string]statemachine.StateID, len(b.states))
	for _, name := range b.states {
		ids[name] = states.AddState(name)
	}
	states.SetInitial(ids[b.initial])

	for _, td := range b.transitions {
		fromID, ok := ids[td.state]
		if !ok {
			return nil, &Error{Kind: UnknownState, Name: td.state}
		}
		toID, ok := ids[td.to]
		if !ok {
			return nil, &Error{Kind: UnknownState, Name: td.to}
		}
		kind, ok := registry.Lookup(td.token)
		if !ok {
			return nil, &Error{Kind: UnknownToken, Name: td.token}
		}
		if td.action != "" {
			if _, ok := b.actions[td.action]; !ok {
				return nil, &Error{Kind: UnknownAction, Name: td.action}
			}
		}
		states.On(fromID, kind, toID, td.action)
	}

	syncKinds := make([]token.Kind, 0, len(b.syncTokens))
	for name := range b.syncTokens {
		kind, ok := registry.Lookup(name)
		if !ok {
			return nil, &Error{Kind: UnknownToken, Name: name}
		}
		syncKinds = append(syncKinds, kind)
	}

	return &Config{
		Patterns:  b.patterns,
		Rules:     rules,
		States:    states,
		Registry:  registry,
		SyncKinds: syncKinds,
		actions:   b.actions,
	}, nil
}

// NewMachine constructs a statemachine.Machine from the resolved config and
// registers every action RegisterAction attached to the Builder it came
// from.
func (c *Config) NewMachine() *statemachine.Machine {
	m := statemachine.New(c.States)
	for name, fn := range c.actions {
		m.OnAction(name, fn)
	}
	return m
}
