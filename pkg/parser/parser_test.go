package parser

import (
	"testing"

	"github.com/shapestone/lexengine/internal/chartable"
	"github.com/shapestone/lexengine/pkg/bytestream"
	"github.com/shapestone/lexengine/pkg/event"
	"github.com/shapestone/lexengine/pkg/lexrules"
	"github.com/shapestone/lexengine/pkg/statemachine"
	"github.com/shapestone/lexengine/pkg/token"
)

// buildExpressionGrammar builds a tiny "number (op number)*" grammar
// matching spec.md Scenario E.
func buildExpressionGrammar() (rules *lexrules.Table, sm *statemachine.Table, number, plus, minus, star token.Kind) {
	rules = lexrules.NewTable()
	reg := token.NewRegistry()
	ws := reg.Define("Whitespace")
	number = reg.Define("Number")
	plus = reg.Define("Plus")
	minus = reg.Define("Minus")
	star = reg.Define("Star")
	paren := reg.Define("Paren")

	rules.AddSkip(ws, rules.Patterns.OneOrMore(rules.Patterns.Class(chartable.Whitespace)))
	rules.Add(number, rules.Patterns.OneOrMore(rules.Patterns.Class(chartable.Digit)))
	rules.Add(plus, rules.Patterns.LitString("+"))
	rules.Add(minus, rules.Patterns.LitString("-"))
	rules.Add(star, rules.Patterns.LitString("*"))
	// Parens are recognized as real (if grammatically unused) tokens so
	// Scenario E's ")" surfaces as an UnexpectedToken, not a lexical
	// unrecognized-byte error: the state machine below never wires a
	// transition for Paren.
	rules.Add(paren, rules.Patterns.AnyOf([]byte("()")))

	sm = statemachine.NewTable()
	start := sm.AddState("Start")
	afterNumber := sm.AddState("AfterNumber")
	afterOp := sm.AddState("AfterOp")
	sm.SetInitial(start)

	sm.On(start, number, afterNumber, "token")
	sm.On(afterNumber, plus, afterOp, "token")
	sm.On(afterNumber, minus, afterOp, "token")
	sm.On(afterNumber, star, afterOp, "token")
	sm.On(afterOp, number, afterNumber, "token")

	return rules, sm, number, plus, minus, star
}

// TestScenarioERecovery mirrors spec.md Scenario E: "123 + ) * 45" against
// the expression grammar, normal mode, sync set includes plus/minus.
// Expected: one UnexpectedToken at ")", parse continues and the trailing
// "45" is consumed without a second error.
func TestScenarioERecovery(t *testing.T) {
	rules, sm, _, plus, minus, _ := buildExpressionGrammar()
	s := bytestream.FromMemory([]byte("123 + ) * 45"))
	p := New(rules, sm, s, Normal, []token.Kind{plus, minus}, nil)

	if err := p.Parse(); err != nil {
		t.Fatalf("Parse in Normal mode should not return an error: %v", err)
	}
	if len(p.Errors()) != 1 {
		t.Fatalf("got %d errors, want exactly 1: %v", len(p.Errors()), p.Errors())
	}
	if p.Errors()[0].Pos.Column != 7 {
		t.Fatalf("unexpected token reported at column %d, want 7 (the ')')", p.Errors()[0].Pos.Column)
	}
}

// TestScenarioFErrorToken mirrors spec.md Scenario F: "abc\x01def" yields
// Word, an error token for the unrecognized byte, then Word again, with
// the lexical error reported but parsing continuing.
func TestScenarioFErrorToken(t *testing.T) {
	rules := lexrules.NewTable()
	reg := token.NewRegistry()
	word := reg.Define("Word")
	rules.Add(word, rules.Patterns.OneOrMore(rules.Patterns.Class(chartable.AlphaLower)))

	sm := statemachine.NewTable()
	start := sm.AddState("Start")
	sm.SetInitial(start)
	sm.On(start, word, start, "")

	var values []string
	handler := func(ev event.Event) {
		if ev.Kind == event.Value {
			values = append(values, string(ev.Token.Text))
		}
	}

	s := bytestream.FromMemory([]byte("abc\x01def"))
	p := New(rules, sm, s, Normal, nil, handler)
	p.StateMachine().OnAction("", func(state statemachine.StateID, tok token.Token) {})

	if err := p.Parse(); err != nil {
		t.Fatalf("Normal mode should continue past a lexical error: %v", err)
	}
	if len(p.Errors()) != 1 {
		t.Fatalf("got %d errors, want 1 (one unrecognized byte): %v", len(p.Errors()), p.Errors())
	}
	if p.Errors()[0].Code.Category() != "lexical" {
		t.Fatalf("error category = %q, want lexical", p.Errors()[0].Code.Category())
	}
}

// TestValidationModeNeverAdvancesStateOnError covers SPEC_FULL.md §8
// testable property 8: a second number with no operator between it and
// the first is rejected, and the state machine's current state must stay
// exactly where the first number left it.
func TestValidationModeNeverAdvancesStateOnError(t *testing.T) {
	rules, sm, _, _, _, _ := buildExpressionGrammar()
	s := bytestream.FromMemory([]byte("123 123"))
	p := New(rules, sm, s, Validation, nil, nil)

	if err := p.Parse(); err == nil {
		t.Fatal("Validation mode should raise once errors were collected")
	}
	if len(p.Errors()) != 1 {
		t.Fatalf("got %d errors, want exactly 1 (the second '123')", len(p.Errors()))
	}
	if sm.Name(p.StateMachine().State()) != "AfterNumber" {
		t.Fatalf("state = %s, want AfterNumber (unchanged since the first number)", sm.Name(p.StateMachine().State()))
	}
}

func TestStrictModeAbortsOnFirstError(t *testing.T) {
	rules, sm, _, _, _, _ := buildExpressionGrammar()
	s := bytestream.FromMemory([]byte("* 123"))
	p := New(rules, sm, s, Strict, nil, nil)

	err := p.Parse()
	if err == nil {
		t.Fatal("Strict mode should abort on the first UnexpectedToken")
	}
	if len(p.Errors()) != 1 {
		t.Fatalf("got %d errors, want exactly 1", len(p.Errors()))
	}
}

func TestExactlyOneStartAndEndDocumentEmitted(t *testing.T) {
	rules, sm, _, _, _, _ := buildExpressionGrammar()
	s := bytestream.FromMemory([]byte("123 + 45"))

	var events []string
	handler := func(ev event.Event) {
		if ev.Kind == event.StartDocument || ev.Kind == event.EndDocument {
			events = append(events, ev.Kind.String())
		}
	}
	p := New(rules, sm, s, Normal, nil, handler)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(events) != 2 || events[0] != "StartDocument" || events[1] != "EndDocument" {
		t.Fatalf("got %v, want exactly one StartDocument then one EndDocument", events)
	}
}

// TestProcessChunkIncrementalMatchesWholeInputParse mirrors spec.md
// Scenario D and §8's "ProcessChunk matches whole-input parse" property:
// feeding "123 + 45" in arbitrary, token-splitting chunks must emit the
// exact same token sequence a single Parse over the whole input would,
// including across a chunk boundary that falls mid-token ("12" | "3 + ").
func TestProcessChunkIncrementalMatchesWholeInputParse(t *testing.T) {
	rules, sm, _, _, _, _ := buildExpressionGrammar()

	var chunkedDocEvents, chunkedValues []string
	s := bytestream.WithBuffer(nil)
	p := New(rules, sm, s, Normal, nil, func(ev event.Event) {
		switch ev.Kind {
		case event.StartDocument, event.EndDocument:
			chunkedDocEvents = append(chunkedDocEvents, ev.Kind.String())
		case event.Value:
			chunkedValues = append(chunkedValues, string(ev.Token.Text))
		}
	})
	p.StateMachine().OnAction("token", func(_ statemachine.StateID, tok token.Token) {
		p.Emitter().Value(tok)
	})

	for _, chunk := range []string{"12", "3 + ", "45"} {
		if err := p.ProcessChunk([]byte(chunk)); err != nil {
			t.Fatalf("ProcessChunk(%q): %v", chunk, err)
		}
	}
	if err := p.FinishChunks(); err != nil {
		t.Fatalf("FinishChunks: %v", err)
	}
	if p.HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if len(chunkedDocEvents) != 2 || chunkedDocEvents[0] != "StartDocument" || chunkedDocEvents[1] != "EndDocument" {
		t.Fatalf("got %v, want exactly one StartDocument then one EndDocument", chunkedDocEvents)
	}

	rules2, sm2, _, _, _, _ := buildExpressionGrammar()
	var wholeValues []string
	whole := bytestream.FromMemory([]byte("123 + 45"))
	wp := New(rules2, sm2, whole, Normal, nil, func(ev event.Event) {
		if ev.Kind == event.Value {
			wholeValues = append(wholeValues, string(ev.Token.Text))
		}
	})
	wp.StateMachine().OnAction("token", func(_ statemachine.StateID, tok token.Token) {
		wp.Emitter().Value(tok)
	})
	if err := wp.Parse(); err != nil {
		t.Fatalf("whole-input Parse: %v", err)
	}

	if len(chunkedValues) != len(wholeValues) {
		t.Fatalf("chunked emitted %v, whole-input parse emitted %v", chunkedValues, wholeValues)
	}
	for i := range wholeValues {
		if chunkedValues[i] != wholeValues[i] {
			t.Fatalf("token %d: chunked=%q, whole-input=%q (got %v, want %v)", i, chunkedValues[i], wholeValues[i], chunkedValues, wholeValues)
		}
	}
}
