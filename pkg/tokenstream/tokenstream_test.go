package tokenstream

import (
	"testing"

	"github.com/shapestone/lexengine/internal/chartable"
	"github.com/shapestone/lexengine/pkg/lexrules"
	"github.com/shapestone/lexengine/pkg/token"
)

func buildWordNumberTable() (*lexrules.Table, token.Kind, token.Kind, token.Kind) {
	tb := lexrules.NewTable()
	reg := token.NewRegistry()
	word := reg.Define("Word")
	number := reg.Define("Number")
	ws := reg.Define("Whitespace")

	tb.AddSkip(ws, tb.Patterns.OneOrMore(tb.Patterns.Class(chartable.Whitespace)))
	tb.Add(word, tb.Patterns.OneOrMore(tb.Patterns.Class(chartable.AlphaLower)))
	tb.Add(number, tb.Patterns.OneOrMore(tb.Patterns.Class(chartable.Digit)))
	return tb, word, number, ws
}

// TestScenarioAWordNumberTokenization mirrors spec.md Scenario A: tokenizing
// "hello 42 world" into Word, Number, Word with whitespace skipped.
func TestScenarioAWordNumberTokenization(t *testing.T) {
	tb, word, number, _ := buildWordNumberTable()
	ts := New(tb, []byte("hello 42 world"))

	var got []token.Token
	for {
		tok, ok := ts.Next()
		if !ok {
			break
		}
		got = append(got, tok)
	}

	if len(got) != 3 {
		t.Fatalf("got %d tokens, want 3: %v", len(got), got)
	}
	want := []struct {
		kind token.Kind
		text string
	}{
		{word, "hello"},
		{number, "42"},
		{word, "world"},
	}
	for i, w := range want {
		if got[i].Kind != w.kind || string(got[i].Text) != w.text {
			t.Fatalf("token %d = %+v, want kind=%d text=%q", i, got[i], w.kind, w.text)
		}
	}
}

func TestNextReturnsErrorTokenOnUnrecognizedByte(t *testing.T) {
	tb, _, _, _ := buildWordNumberTable()
	ts := New(tb, []byte("@"))

	tok, ok := ts.Next()
	if !ok {
		t.Fatal("expected a token")
	}
	if !tok.IsError() {
		t.Fatalf("got %+v, want an error token", tok)
	}
	if string(tok.Text) != "@" {
		t.Fatalf("error token text = %q, want %q", tok.Text, "@")
	}
	if !ts.AtEnd() {
		t.Fatal("stream should have advanced past the unrecognized byte")
	}
}

func TestTokenTextBorrowsInput(t *testing.T) {
	tb, word, _, _ := buildWordNumberTable()
	input := []byte("abc")
	ts := New(tb, input)

	tok, ok := ts.Next()
	if !ok || tok.Kind != word {
		t.Fatalf("got %+v, ok=%v", tok, ok)
	}
	// Text must alias input, not a copy.
	input[0] = 'X'
	if tok.Text[0] != 'X' {
		t.Fatal("Token.Text did not alias the input slice")
	}
}

func TestEmptyInputYieldsNoTokens(t *testing.T) {
	tb, _, _, _ := buildWordNumberTable()
	ts := New(tb, nil)
	if _, ok := ts.Next(); ok {
		t.Fatal("expected no tokens from empty input")
	}
}
