// Package statemachine implements the token-driven StateMachine from
// SPEC_FULL.md §4.4: a linear per-state transition table with action
// dispatch and bounded error recovery via sync points.
//
// States and transitions are plain data (StateID, token.Kind pairs mapping
// to a next StateID and a named action), the same flat-table shape the
// teacher's pkg/grammar.Grammar uses for its Rule/RuleMap lookup, adapted
// here from a string-keyed AST-comparison table to an integer-keyed
// runtime transition table.
package statemachine

import (
	"fmt"

	"github.com/shapestone/lexengine/pkg/token"
)

// StateID identifies a state. AddState assigns ids from 0 in registration
// order.
type StateID int

// transition is one (token kind -> next state, action) edge out of a state.
type transition struct {
	next   StateID
	action string
}

// Table holds every state's outgoing transitions plus the set of states
// flagged as synchronization points for error recovery.
type Table struct {
	names       []string
	transitions map[StateID]map[token.Kind]transition
	syncPoints  map[StateID]bool
	initial     StateID
	hasInitial  bool
}

// NewTable constructs an empty transition table.
func NewTable() *Table {
	return &Table{
		transitions: make(map[StateID]map[token.Kind]transition),
		syncPoints:  make(map[StateID]bool),
	}
}

// AddState registers a new named state and returns its id.
func (tb *Table) AddState(name string) StateID {
	id := StateID(len(tb.names))
	tb.names = append(tb.names, name)
	tb.transitions[id] = make(map[token.Kind]transition)
	return id
}

// SetInitial marks id as the machine's starting state.
func (tb *Table) SetInitial(id StateID) {
	tb.initial = id
	tb.hasInitial = true
}

// MarkSyncPoint flags id as a state error recovery may resynchronize to,
// per SPEC_FULL.md §4.4's bounded-recovery design.
func (tb *Table) MarkSyncPoint(id StateID) {
	tb.syncPoints[id] = true
}

// IsSyncPoint reports whether id was flagged via MarkSyncPoint.
func (tb *Table) IsSyncPoint(id StateID) bool {
	return tb.syncPoints[id]
}

// Name returns the declared name for a state id.
func (tb *Table) Name(id StateID) string {
	if int(id) < 0 || int(id) >= len(tb.names) {
		return fmt.Sprintf("State(%d)", id)
	}
	return tb.names[id]
}

// On registers a transition: in state from, seeing a token of kind,
// advance to state to and dispatch action (may be empty).
func (tb *Table) On(from StateID, kind token.Kind, to StateID, action string) {
	tb.transitions[from][kind] = transition{next: to, action: action}
}

// TryTransition looks up the edge for (state, kind) without mutating
// anything, returning ok=false if no such edge is registered.
func (tb *Table) TryTransition(state StateID, kind token.Kind) (next StateID, action string, ok bool) {
	edges, ok := tb.transitions[state]
	if !ok {
		return 0, "", false
	}
	t, ok := edges[kind]
	if !ok {
		return 0, "", false
	}
	return t.next, t.action, true
}

// ActionFunc is invoked when a transition carries a named action.
type ActionFunc func(state StateID, tok token.Token)

// Machine is a running instance of a Table: current state plus a registry
// of action callbacks invoked on transitions that name one.
type Machine struct {
	table   *Table
	state   StateID
	actions map[string]ActionFunc
}

// New constructs a Machine at table's initial state. Panics if the table
// has no initial state set, mirroring the teacher's fail-fast constructor
// style (e.g. shape.NewValidator's required-registry checks).
func New(table *Table) *Machine {
	if !table.hasInitial {
		panic("statemachine: table has no initial state (call SetInitial)")
	}
	return &Machine{table: table, state: table.initial, actions: make(map[string]ActionFunc)}
}

// OnAction registers the callback invoked whenever a taken transition names
// action.
func (m *Machine) OnAction(action string, fn ActionFunc) {
	m.actions[action] = fn
}

// State returns the machine's current state.
func (m *Machine) State() StateID {
	return m.state
}

// Reset returns the machine to its table's initial state.
func (m *Machine) Reset() {
	m.state = m.table.initial
}

// Transition attempts to advance the machine on tok. On success it updates
// State and dispatches the edge's action (if any) and returns true. On
// failure (no edge registered for tok.Kind in the current state) it leaves
// State unchanged and returns false, so a Validation-mode parser can
// observe an UnexpectedToken without the machine silently advancing —
// SPEC_FULL.md §8 testable property 8.
func (m *Machine) Transition(tok token.Token) bool {
	next, action, ok := m.table.TryTransition(m.state, tok.Kind)
	if !ok {
		return false
	}
	m.state = next
	if action != "" {
		if fn, ok := m.actions[action]; ok {
			fn(m.state, tok)
		}
	}
	return true
}

// JumpToSyncPoint forces the machine directly into state id, used by a
// parser's recovery loop once it has located the resynchronization anchor
// (e.g. a statement terminator) in the token stream itself.
func (m *Machine) JumpToSyncPoint(id StateID) {
	m.state = id
}

// IsAtSyncPoint reports whether the machine's current state is a
// registered synchronization point.
func (m *Machine) IsAtSyncPoint() bool {
	return m.table.IsSyncPoint(m.state)
}
