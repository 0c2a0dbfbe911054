// YAML grammar loading, per SPEC_FULL.md §4.6: a grammar description kept
// as data (tokens, skip set, states, transitions, sync set) rather than Go
// code, decoded with gopkg.in/yaml.v3 — the same library the teacher's
// go.mod already declared and its yamlv front-end already consumes, now
// pointed at grammar configuration instead of a document tree.
package grammar

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/shapestone/lexengine/internal/chartable"
	"github.com/shapestone/lexengine/pkg/pattern"
)

// yamlDoc mirrors the top-level shape of a grammar YAML file.
type yamlDoc struct {
	Tokens      []yamlToken      `yaml:"tokens"`
	States      []string         `yaml:"states"`
	Initial     string           `yaml:"initial"`
	Transitions []yamlTransition `yaml:"transitions"`
	Sync        []string         `yaml:"sync"`
}

type yamlToken struct {
	Name    string         `yaml:"name"`
	Skip    bool           `yaml:"skip"`
	Pattern yamlPatternRef `yaml:"pattern"`
}

type yamlTransition struct {
	State  string `yaml:"state"`
	Token  string `yaml:"token"`
	To     string `yaml:"to"`
	Action string `yaml:"action"`
}

// yamlPatternRef decodes one node of the pattern tree from spec.md §3: its
// Type selects which of the remaining fields are meaningful, mirroring how
// the teacher's grammar.Expression variants are tagged by a string Type in
// EBNF source before being parsed into a concrete node.
type yamlPatternRef struct {
	Type  string            `yaml:"type"`
	Value string            `yaml:"value"` // literal
	Class string            `yaml:"class"` // char_class
	Lo    string            `yaml:"lo"`    // range (single byte, as a 1-char string)
	Hi    string            `yaml:"hi"`    // range
	Set   string            `yaml:"set"`   // any_of
	Of    *yamlPatternRef  `yaml:"of"`  // one_or_more / zero_or_more / optional / until(delim)
	Seq   []yamlPatternRef `yaml:"seq"` // sequence
}

// LoadYAML parses a grammar document and resolves it into a Config in one
// step. Resolution errors (UnknownToken/UnknownState/UnknownAction/
// NoInitialState) come back exactly as Builder.Build would report them;
// malformed pattern nodes come back as a plain error.
func LoadYAML(data []byte) (*Config, error) {
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("grammar: parse yaml: %w", err)
	}

	b := NewBuilder()
	for _, name := range doc.States {
		b.State(name)
	}
	if doc.Initial != "" {
		b.Initial(doc.Initial)
	}

	for _, tk := range doc.Tokens {
		id, err := compilePattern(b.Patterns(), tk.Pattern)
		if err != nil {
			return nil, fmt.Errorf("grammar: token %q: %w", tk.Name, err)
		}
		if tk.Skip {
			b.SkipToken(tk.Name, id)
		} else {
			b.Token(tk.Name, id)
		}
	}

	for _, tr := range doc.Transitions {
		b.State(tr.State).On(tr.Token).To(tr.To)
		if tr.Action != "" {
			b.Action(tr.Action)
		}
	}

	for _, name := range doc.Sync {
		b.SyncToken(name)
	}

	return b.Build()
}

func compilePattern(s *pattern.Set, ref yamlPatternRef) (pattern.ID, error) {
	switch ref.Type {
	case "literal":
		return s.LitString(ref.Value), nil
	case "char_class":
		class, err := parseClass(ref.Class)
		if err != nil {
			return 0, err
		}
		return s.Class(class), nil
	case "range":
		if len(ref.Lo) != 1 || len(ref.Hi) != 1 {
			return 0, fmt.Errorf("range: lo/hi must each be one byte, got %q/%q", ref.Lo, ref.Hi)
		}
		return s.Range(ref.Lo[0], ref.Hi[0]), nil
	case "any_of":
		return s.AnyOf([]byte(ref.Set)), nil
	case "any":
		return s.Any(), nil
	case "sequence":
		ids := make([]pattern.ID, 0, len(ref.Seq))
		for _, child := range ref.Seq {
			id, err := compilePattern(s, child)
			if err != nil {
				return 0, err
			}
			ids = append(ids, id)
		}
		return s.Seq(ids...), nil
	case "one_or_more":
		child, err := requireOf(s, ref)
		if err != nil {
			return 0, err
		}
		return s.OneOrMore(child), nil
	case "zero_or_more":
		child, err := requireOf(s, ref)
		if err != nil {
			return 0, err
		}
		return s.ZeroOrMore(child), nil
	case "optional":
		child, err := requireOf(s, ref)
		if err != nil {
			return 0, err
		}
		return s.Optional(child), nil
	case "until":
		child, err := requireOf(s, ref)
		if err != nil {
			return 0, err
		}
		return s.Until(child), nil
	default:
		return 0, fmt.Errorf("unknown pattern type %q", ref.Type)
	}
}

func requireOf(s *pattern.Set, ref yamlPatternRef) (pattern.ID, error) {
	if ref.Of == nil {
		return 0, fmt.Errorf("%s: missing required 'of'", ref.Type)
	}
	return compilePattern(s, *ref.Of)
}

func parseClass(name string) (chartable.Class, error) {
	switch name {
	case "other":
		return chartable.Other, nil
	case "whitespace":
		return chartable.Whitespace, nil
	case "alpha_lower":
		return chartable.AlphaLower, nil
	case "alpha_upper":
		return chartable.AlphaUpper, nil
	case "digit":
		return chartable.Digit, nil
	case "punct":
		return chartable.Punct, nil
	case "quote":
		return chartable.Quote, nil
	case "newline":
		return chartable.Newline, nil
	default:
		return 0, fmt.Errorf("unknown char class %q", name)
	}
}
