// Package event implements the EventEmitter from SPEC_FULL.md §4: the
// Parser reports StartDocument/EndDocument, StartElement/EndElement,
// Value, and Error events to a single user-supplied Handler as parsing
// proceeds, rather than building an in-memory tree.
package event

import (
	"github.com/shapestone/lexengine/pkg/lexerr"
	"github.com/shapestone/lexengine/pkg/position"
	"github.com/shapestone/lexengine/pkg/token"
)

// Kind identifies which event a Handler is being notified of.
type Kind int

const (
	StartDocument Kind = iota
	EndDocument
	StartElement
	EndElement
	Value
	Error
)

func (k Kind) String() string {
	switch k {
	case StartDocument:
		return "StartDocument"
	case EndDocument:
		return "EndDocument"
	case StartElement:
		return "StartElement"
	case EndElement:
		return "EndElement"
	case Value:
		return "Value"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Event is a single notification delivered to a Handler. Only the fields
// relevant to Kind are populated.
type Event struct {
	Kind  Kind
	Pos   position.Position
	Name  string        // StartElement/EndElement: element name
	Token token.Token   // Value: the token carrying the value
	Err   *lexerr.Error // Error: the diagnostic
}

// Handler receives Events as the parser advances through the input.
type Handler func(Event)

// Emitter dispatches Events to a single Handler and counts
// StartDocument/EndDocument so callers can assert SPEC_FULL.md §8's
// testable property 9 ("exactly one StartDocument and one EndDocument per
// parse").
type Emitter struct {
	handler    Handler
	startCount int
	endCount   int
}

// New constructs an Emitter that forwards every Event to handler.
func New(handler Handler) *Emitter {
	return &Emitter{handler: handler}
}

func (e *Emitter) emit(ev Event) {
	switch ev.Kind {
	case StartDocument:
		e.startCount++
	case EndDocument:
		e.endCount++
	}
	if e.handler != nil {
		e.handler(ev)
	}
}

// StartDocument emits a StartDocument event.
func (e *Emitter) StartDocument(pos position.Position) {
	e.emit(Event{Kind: StartDocument, Pos: pos})
}

// EndDocument emits an EndDocument event.
func (e *Emitter) EndDocument(pos position.Position) {
	e.emit(Event{Kind: EndDocument, Pos: pos})
}

// StartElement emits a StartElement event for a named construct (e.g. an
// object, array, or tag, depending on the grammar being driven).
func (e *Emitter) StartElement(pos position.Position, name string) {
	e.emit(Event{Kind: StartElement, Pos: pos, Name: name})
}

// EndElement emits an EndElement event matching a prior StartElement.
func (e *Emitter) EndElement(pos position.Position, name string) {
	e.emit(Event{Kind: EndElement, Pos: pos, Name: name})
}

// Value emits a Value event carrying the token that produced it.
func (e *Emitter) Value(tok token.Token) {
	e.emit(Event{Kind: Value, Pos: tok.Pos, Token: tok})
}

// ReportError emits an Error event carrying a diagnostic, without
// terminating the parse: it is the caller's decision (governed by parse
// mode) whether to continue after reporting.
func (e *Emitter) ReportError(err *lexerr.Error) {
	e.emit(Event{Kind: Error, Pos: err.Pos, Err: err})
}

// StartCount returns how many StartDocument events have been emitted.
func (e *Emitter) StartCount() int {
	return e.startCount
}

// EndCount returns how many EndDocument events have been emitted.
func (e *Emitter) EndCount() int {
	return e.endCount
}
