package pattern

import (
	"testing"

	"github.com/shapestone/lexengine/internal/chartable"
)

func TestLiteral(t *testing.T) {
	s := NewSet()
	p := s.LitString("true")

	r := s.Eval(p, []byte("truest"), 0)
	if !r.Matched || r.Length != 4 {
		t.Fatalf("got %+v, want matched length 4", r)
	}

	r = s.Eval(p, []byte("tru"), 0)
	if r.Matched {
		t.Fatalf("short input should not match, got %+v", r)
	}
}

func TestCharClassAndRange(t *testing.T) {
	s := NewSet()
	digit := s.Class(chartable.Digit)
	r := s.Eval(digit, []byte("9x"), 0)
	if !r.Matched || r.Length != 1 {
		t.Fatalf("digit class: got %+v", r)
	}

	rng := s.Range('a', 'f')
	if r := s.Eval(rng, []byte("c"), 0); !r.Matched {
		t.Fatal("range should match 'c'")
	}
	if r := s.Eval(rng, []byte("z"), 0); r.Matched {
		t.Fatal("range should not match 'z'")
	}
}

func TestAnyOfAndAny(t *testing.T) {
	s := NewSet()
	anyOf := s.AnyOf([]byte("+-"))
	if r := s.Eval(anyOf, []byte("-5"), 0); !r.Matched || r.Length != 1 {
		t.Fatalf("anyOf: got %+v", r)
	}

	any := s.Any()
	if r := s.Eval(any, []byte(""), 0); r.Matched {
		t.Fatal("Any at end of input must fail")
	}
}

func TestOneOrMoreRequiresOneMatch(t *testing.T) {
	s := NewSet()
	alpha := s.Class(chartable.AlphaLower)
	word := s.OneOrMore(alpha)

	r := s.Eval(word, []byte("hello 123"), 0)
	if !r.Matched || r.Length != 5 {
		t.Fatalf("got %+v, want matched length 5", r)
	}

	r = s.Eval(word, []byte("123"), 0)
	if r.Matched {
		t.Fatal("OneOrMore must fail with zero iterations")
	}
}

func TestZeroOrMoreAlwaysSucceeds(t *testing.T) {
	s := NewSet()
	ws := s.Class(chartable.Whitespace)
	spaces := s.ZeroOrMore(ws)

	r := s.Eval(spaces, []byte("abc"), 0)
	if !r.Matched || r.Length != 0 {
		t.Fatalf("got %+v, want matched length 0", r)
	}

	r = s.Eval(spaces, []byte("   abc"), 0)
	if !r.Matched || r.Length != 3 {
		t.Fatalf("got %+v, want matched length 3", r)
	}
}

func TestOptional(t *testing.T) {
	s := NewSet()
	minus := s.LitString("-")
	opt := s.Optional(minus)

	if r := s.Eval(opt, []byte("-5"), 0); !r.Matched || r.Length != 1 {
		t.Fatalf("got %+v", r)
	}
	if r := s.Eval(opt, []byte("5"), 0); !r.Matched || r.Length != 0 {
		t.Fatalf("got %+v, want zero-length success", r)
	}
}

func TestSequence(t *testing.T) {
	s := NewSet()
	quote := s.LitString(`"`)
	inner := s.ZeroOrMore(s.AnyOf([]byte("abc")))
	seq := s.Seq(quote, inner, quote)

	r := s.Eval(seq, []byte(`"abc"`), 0)
	if !r.Matched || r.Length != 5 {
		t.Fatalf("got %+v, want matched length 5", r)
	}

	r = s.Eval(seq, []byte(`"abc`), 0)
	if r.Matched {
		t.Fatal("unterminated sequence should not match")
	}
}

func TestUntilUnconditionalSuccess(t *testing.T) {
	s := NewSet()
	quote := s.LitString(`"`)
	until := s.Until(quote)

	r := s.Eval(until, []byte(`hello"world`), 0)
	if !r.Matched || r.Length != 5 {
		t.Fatalf("got %+v, want matched length 5", r)
	}

	// Delimiter matches at start: zero length.
	r = s.Eval(until, []byte(`"world`), 0)
	if !r.Matched || r.Length != 0 {
		t.Fatalf("got %+v, want zero-length match at start", r)
	}

	// Delimiter never found: consumes all remaining input.
	r = s.Eval(until, []byte(`no delimiter here`), 0)
	if !r.Matched || r.Length != len("no delimiter here") {
		t.Fatalf("got %+v, want full remaining length", r)
	}
}

// TestScenarioAWordNumberTokenization exercises spec.md Scenario A's pattern
// shapes directly against the evaluator (the end-to-end tokenizer behavior
// is covered in pkg/tokenstream).
func TestScenarioAWordNumberTokenization(t *testing.T) {
	s := NewSet()
	word := s.OneOrMore(s.Class(chartable.AlphaLower))
	number := s.OneOrMore(s.Class(chartable.Digit))
	ws := s.OneOrMore(s.Class(chartable.Whitespace))

	input := []byte("hello 123 world")
	r := s.Eval(word, input, 0)
	if !r.Matched || r.Length != 5 {
		t.Fatalf("word: got %+v", r)
	}
	r = s.Eval(ws, input, 5)
	if !r.Matched || r.Length != 1 {
		t.Fatalf("ws: got %+v", r)
	}
	r = s.Eval(number, input, 6)
	if !r.Matched || r.Length != 3 {
		t.Fatalf("number: got %+v", r)
	}
}

// TestNeverConsumesPastInput is invariant 1 from SPEC_FULL.md §8.
func TestNeverConsumesPastInput(t *testing.T) {
	s := NewSet()
	greedy := s.OneOrMore(s.Any())
	for pos := 0; pos <= 5; pos++ {
		r := s.Eval(greedy, []byte("abcde"), pos)
		if pos+r.Length > 5 {
			t.Fatalf("pos=%d length=%d overruns input", pos, r.Length)
		}
	}
}
