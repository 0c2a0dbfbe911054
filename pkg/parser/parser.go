// Package parser implements the Parser orchestration layer from
// SPEC_FULL.md §4.5: ties a bytestream.Stream, an allocating tokenizer, a
// statemachine.Machine, an event.Emitter, and a lexerr.Reporter together,
// under one of four parse modes that govern what happens when the state
// machine cannot transition on the current token.
//
// The whole-input vs. incremental (process-then-finish) entry points and
// the mode-driven recovery policy are new: the teacher's own pkg/parser
// only declared a format-parser interface (Parse/Format) with no
// orchestration of its own. The shape of Parser's resource ownership
// (stream + tokenizer + reporter, all torn down together) and its error
// type mirror the teacher's pkg/parser.ParseError / pkg/validator error
// conventions, generalized to the token-driven recovery this spec adds.
package parser

import (
	"fmt"

	"github.com/shapestone/lexengine/pkg/bytestream"
	"github.com/shapestone/lexengine/pkg/event"
	"github.com/shapestone/lexengine/pkg/lexerr"
	"github.com/shapestone/lexengine/pkg/lexrules"
	"github.com/shapestone/lexengine/pkg/statemachine"
	"github.com/shapestone/lexengine/pkg/token"
	"github.com/shapestone/lexengine/pkg/tokenizer"
)

// Mode selects the policy applied when the state machine reports
// UnexpectedToken.
type Mode int

const (
	// Strict aborts with the first UnexpectedToken; no recovery.
	Strict Mode = iota
	// Normal synchronizes and continues on UnexpectedToken.
	Normal
	// Lenient probes the following token before falling back to
	// synchronize.
	Lenient
	// Validation collects errors without advancing state or aborting,
	// raising only after the whole input has been seen. Like every mode,
	// it still aborts with TooManyErrors once the SetMaxErrors limit is
	// exceeded.
	Validation
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Normal:
		return "normal"
	case Lenient:
		return "lenient"
	case Validation:
		return "validation"
	default:
		return "unknown"
	}
}

// compactThreshold*/compactMinBufferSize govern when ProcessChunk
// opportunistically compacts the stream buffer, per SPEC_FULL.md §4.5
// ("optionally compact when buffer utilization falls below a threshold
// and size exceeds the max").
const (
	compactThresholdNumerator, compactThresholdDenominator = 1, 4
	compactMinBufferSize                                   = 64 * 1024
)

// Error is returned by Parse/FinishChunks when a parse mode's policy
// requires raising once diagnostics have been collected.
type Error struct {
	Diagnostic *lexerr.Error
}

func (e *Error) Error() string {
	return e.Diagnostic.Error()
}

// Parser orchestrates one parse over one stream.
type Parser struct {
	stream   *bytestream.Stream
	tok      *tokenizer.Tokenizer
	sm       *statemachine.Machine
	smTable  *statemachine.Table
	emitter  *event.Emitter
	reporter *lexerr.Reporter

	mode       Mode
	maxErrors  int
	syncKinds  map[token.Kind]bool
	errorCount int
	started    bool
}

// New constructs a Parser reading from stream using rules to tokenize and
// smTable to drive state transitions. handler receives every emitted
// event; syncKinds is the configured synchronization set used by
// Normal/Lenient recovery.
func New(rules *lexrules.Table, smTable *statemachine.Table, stream *bytestream.Stream, mode Mode, syncKinds []token.Kind, handler event.Handler) *Parser {
	sync := make(map[token.Kind]bool, len(syncKinds))
	for _, k := range syncKinds {
		sync[k] = true
	}
	return &Parser{
		stream:    stream,
		tok:       tokenizer.New(rules, stream),
		sm:        statemachine.New(smTable),
		smTable:   smTable,
		emitter:   event.New(handler),
		reporter:  lexerr.NewReporter(),
		mode:      mode,
		maxErrors: lexerr.DefaultMaxErrors,
		syncKinds: sync,
	}
}

// SetMaxErrors overrides the default error-count limit before TooManyErrors
// is raised.
func (p *Parser) SetMaxErrors(n int) {
	p.maxErrors = n
}

// Emitter exposes the event emitter so grammar actions (registered via
// StateMachine().OnAction) can emit StartElement/EndElement/Value events.
func (p *Parser) Emitter() *event.Emitter {
	return p.emitter
}

// StateMachine exposes the running Machine so a caller can register action
// callbacks before calling Parse/ProcessChunk.
func (p *Parser) StateMachine() *statemachine.Machine {
	return p.sm
}

// Errors returns every non-warning diagnostic reported so far, in
// insertion order.
func (p *Parser) Errors() []*lexerr.Error {
	return p.reporter.Errors()
}

// Warnings returns every warning diagnostic reported so far, in insertion
// order.
func (p *Parser) Warnings() []*lexerr.Error {
	return p.reporter.Warnings()
}

// HasErrors reports whether any non-warning diagnostic has been reported.
func (p *Parser) HasErrors() bool {
	return p.reporter.HasErrors()
}

// errorSink is the minimal surface PrintErrors writes to (satisfied by
// *strings.Builder and anything else with a WriteString method).
type errorSink interface {
	WriteString(string) (int, error)
}

// PrintErrors renders every reported diagnostic via FormatPlain, in
// insertion order, and writes it to sink.
func (p *Parser) PrintErrors(sink errorSink) {
	for _, e := range p.reporter.All() {
		sink.WriteString(e.FormatPlain())
	}
}

func (p *Parser) report(err *lexerr.Error) {
	p.reporter.Report(err)
	p.emitter.ReportError(err)
}

// Parse runs a whole-input parse: the stream must already contain (or be
// able to read on demand) the complete input. It emits StartDocument,
// drives tokens to exhaustion, emits EndDocument, then in Strict/Validation
// modes returns an *Error if any diagnostic was reported.
func (p *Parser) Parse() error {
	p.emitter.StartDocument(p.stream.Position())
	driveErr := p.driveTokens()
	p.emitter.EndDocument(p.stream.Position())
	if driveErr != nil {
		return driveErr
	}
	return p.throwIfErrors()
}

// ProcessChunk appends data to an incrementally-fed stream and drains every
// token that can currently be produced. The first call emits StartDocument,
// even for an empty chunk.
func (p *Parser) ProcessChunk(data []byte) error {
	if !p.started {
		p.emitter.StartDocument(p.stream.Position())
		p.started = true
	}
	if err := p.stream.Append(data); err != nil {
		return err
	}
	if err := p.driveTokens(); err != nil {
		return err
	}
	p.maybeCompact()
	return nil
}

// FinishChunks signals that no further chunks will arrive (flushing any
// token the tokenizer withheld because it reached the edge of buffered
// data), drains any remaining buffered tokens, and emits EndDocument, then
// in Strict/Validation modes returns an *Error if any diagnostic was
// reported.
func (p *Parser) FinishChunks() error {
	p.stream.Finish()
	driveErr := p.driveTokens()
	p.emitter.EndDocument(p.stream.Position())
	if driveErr != nil {
		return driveErr
	}
	return p.throwIfErrors()
}

func (p *Parser) throwIfErrors() error {
	if (p.mode == Strict || p.mode == Validation) && p.reporter.HasErrors() {
		errs := p.reporter.Errors()
		return &Error{Diagnostic: errs[len(errs)-1]}
	}
	return nil
}

func (p *Parser) maybeCompact() {
	stats := p.stream.Stats()
	if stats.BufferSize < compactMinBufferSize {
		return
	}
	if stats.Used*compactThresholdDenominator < stats.BufferSize*compactThresholdNumerator {
		p.stream.Compact()
	}
}

// driveTokens pulls tokens from the tokenizer until it is drained (which,
// for an incrementally-fed stream, means "no more currently buffered",
// not necessarily end of input), running each non-error token through the
// state machine and applying the configured recovery policy on failure.
func (p *Parser) driveTokens() error {
	for {
		tok, ok := p.tok.Next()
		if !ok {
			return nil
		}

		if tok.IsError() {
			p.report(&lexerr.Error{
				Code:     lexerr.CodeUnrecognizedByte,
				Severity: lexerr.SeverityError,
				Pos:      tok.Pos,
				Message:  fmt.Sprintf("unrecognized byte %q", tok.Text),
			})
			continue
		}

		if p.sm.Transition(tok) {
			continue
		}

		if err := p.handleUnexpectedToken(tok); err != nil {
			return err
		}
	}
}

// handleUnexpectedToken reports the diagnostic and applies the parser's
// mode policy for a token the state machine rejected.
func (p *Parser) handleUnexpectedToken(tok token.Token) error {
	p.errorCount++
	diag := &lexerr.Error{
		Code:     lexerr.CodeUnexpectedToken,
		Severity: lexerr.SeverityError,
		Pos:      tok.Pos,
		Message:  fmt.Sprintf("unexpected token in state %s", p.smTable.Name(p.sm.State())),
	}
	p.report(diag)

	if p.errorCount > p.maxErrors {
		tooMany := &lexerr.Error{
			Code:     lexerr.CodeTooManyErrors,
			Severity: lexerr.SeverityFatal,
			Pos:      tok.Pos,
			Message:  "too many errors",
		}
		p.report(tooMany)
		return &Error{Diagnostic: tooMany}
	}

	switch p.mode {
	case Strict:
		return &Error{Diagnostic: diag}
	case Normal:
		return p.synchronize(nil)
	case Lenient:
		next, ok := p.tok.Next()
		if !ok {
			return nil
		}
		if _, _, canAdvance := p.smTable.TryTransition(p.sm.State(), next.Kind); canAdvance {
			p.sm.Transition(next)
			return nil
		}
		return p.synchronize(&next)
	case Validation:
		// Do not advance state and do not abort; keep scanning from the
		// unchanged state, per SPEC_FULL.md §8 testable property 8.
		return nil
	}
	return nil
}

// synchronize implements the recovery algorithm from SPEC_FULL.md §4.5:
// skip tokens until one is either a configured sync kind or one the
// current state has a transition for. A sync-kind token ends recovery
// whether or not the current state accepts it; the machine transitions on
// it only if it does. If first is non-nil it is tried
// before pulling any further tokens (used by Lenient, which has already
// consumed its probe token).
func (p *Parser) synchronize(first *token.Token) error {
	for {
		var tok token.Token
		if first != nil {
			tok, first = *first, nil
		} else {
			var ok bool
			tok, ok = p.tok.Next()
			if !ok {
				err := &lexerr.Error{
					Code:     lexerr.CodeUnexpectedEndOfInput,
					Severity: lexerr.SeverityError,
					Message:  "unexpected end of input during error recovery",
				}
				p.report(err)
				return nil
			}
		}

		if tok.IsError() {
			continue
		}
		if p.syncKinds[tok.Kind] {
			p.sm.Transition(tok)
			return nil
		}
		if _, _, ok := p.smTable.TryTransition(p.sm.State(), tok.Kind); ok {
			p.sm.Transition(tok)
			return nil
		}
	}
}

// Close releases the parser's pooled token arena.
func (p *Parser) Close() {
	p.tok.Close()
}
