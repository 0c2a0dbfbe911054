// Command lexctl is a thin driver over the public engine API described in
// SPEC_FULL.md §4.7: it loads a grammar (a built-in one, or a -grammar
// YAML file via pkg/grammar.LoadYAML), reads an input file or stdin, and
// runs pkg/parser.Parser in the mode named by -mode, printing one line per
// event to stdout and diagnostics to stderr with a non-zero exit code on
// unrecovered errors.
//
// Its flag handling and exit-code conventions are grounded on the
// teacher's cmd/shape-validate/main.go (version flag, usage-on-no-args,
// distinct exit codes for "bad input" vs "bad usage"), but flag parsing
// itself uses github.com/jessevdk/go-flags rather than stdlib flag,
// following the idiom the wider example pack uses for a tool exactly this
// shape (sqldef's cmd/*/main.go).
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/shapestone/lexengine/pkg/bytestream"
	"github.com/shapestone/lexengine/pkg/event"
	"github.com/shapestone/lexengine/pkg/grammar"
	"github.com/shapestone/lexengine/pkg/parser"
)

const version = "0.1.0"

type options struct {
	Grammar string `long:"grammar" short:"g" description:"Path to a YAML grammar file" value-name:"file.yaml"`
	Builtin string `long:"builtin" short:"b" description:"Name of a built-in grammar" value-name:"name" default:"words"`
	Input   string `long:"input" short:"i" description:"Input file to parse (default: stdin)" value-name:"file"`
	Mode    string `long:"mode" short:"m" description:"Parse mode: strict, normal, lenient, validation" value-name:"mode" default:"normal"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// Exit codes mirror the teacher's cmd/shape-validate conventions: 0 clean,
// 1 unrecovered parse error, 2 bad usage, 3 input/grammar could not be
// loaded.
const (
	exitOK = iota
	exitParseError
	exitUsage
	exitLoadError
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	fp := flags.NewParser(&opts, flags.Default)
	fp.Usage = "[OPTIONS]"
	if _, err := fp.ParseArgs(args); err != nil {
		if flags.WroteHelp(err) {
			return exitOK
		}
		return exitUsage
	}

	if opts.Version {
		fmt.Fprintf(stdout, "lexctl version %s\n", version)
		return exitOK
	}

	mode, ok := parseMode(opts.Mode)
	if !ok {
		fmt.Fprintf(stderr, "lexctl: unknown mode %q (want strict, normal, lenient, validation)\n", opts.Mode)
		return exitUsage
	}

	cfg, err := loadGrammar(opts)
	if err != nil {
		fmt.Fprintf(stderr, "lexctl: %v\n", err)
		return exitLoadError
	}

	input, err := readInput(opts.Input)
	if err != nil {
		fmt.Fprintf(stderr, "lexctl: %v\n", err)
		return exitLoadError
	}

	handler := func(ev event.Event) {
		fmt.Fprintf(stdout, "%s %s\n", ev.Pos, describeEvent(ev))
	}

	stream := bytestream.FromMemory(input)
	p := parser.New(cfg.Rules, cfg.States, stream, mode, cfg.SyncKinds, handler)
	defer p.Close()

	parseErr := p.Parse()
	if p.HasErrors() {
		var sb strings.Builder
		p.PrintErrors(&sb)
		fmt.Fprint(stderr, sb.String())
	}
	if parseErr != nil {
		return exitParseError
	}
	return exitOK
}

func describeEvent(ev event.Event) string {
	switch ev.Kind {
	case event.StartDocument:
		return "StartDocument"
	case event.EndDocument:
		return "EndDocument"
	case event.StartElement:
		return fmt.Sprintf("StartElement %s", ev.Name)
	case event.EndElement:
		return fmt.Sprintf("EndElement %s", ev.Name)
	case event.Value:
		return fmt.Sprintf("Value %q", ev.Token.Text)
	case event.Error:
		return fmt.Sprintf("Error %s", ev.Err.Message)
	default:
		return ev.Kind.String()
	}
}

func parseMode(name string) (parser.Mode, bool) {
	switch name {
	case "strict":
		return parser.Strict, true
	case "normal":
		return parser.Normal, true
	case "lenient":
		return parser.Lenient, true
	case "validation":
		return parser.Validation, true
	default:
		return 0, false
	}
}

func loadGrammar(opts options) (*grammar.Config, error) {
	if opts.Grammar != "" {
		data, err := os.ReadFile(opts.Grammar)
		if err != nil {
			return nil, fmt.Errorf("read grammar file: %w", err)
		}
		return grammar.LoadYAML(data)
	}
	return builtinGrammar(opts.Builtin)
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
