package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nihei9/ll1/driver/parser"
	"github.com/nihei9/ll1/driver/pif"
	spec "github.com/nihei9/ll1/spec/grammar"
)

var parseFlags = struct {
	source     *string
	pif        *bool
	logActions *bool
	nodeTable  *bool
	noTree     *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path>",
		Short: "Parse a text stream or a PIF file",
		Example: `  cat src | ll1 parse grammar.json
  ll1 parse grammar.json -s program.pif --pif --log-actions`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.pif = cmd.Flags().Bool("pif", false, "read the source as a PIF file")
	parseFlags.logActions = cmd.Flags().Bool("log-actions", false, "print the stack, the input, and the action of each step")
	parseFlags.nodeTable = cmd.Flags().Bool("node-table", false, "print the index, the parent, and the sibling of each node")
	parseFlags.noTree = cmd.Flags().Bool("no-tree", false, "don't print the derivation tree")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("an unexpected error occurred: %v", v)
		}
		fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
		retErr = err
	}()

	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	var src io.Reader = os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	return parse(os.Stdout, os.Stderr, cgram, src)
}

func parse(w io.Writer, errW io.Writer, cgram *spec.CompiledGrammar, src io.Reader) error {
	var toks parser.TokenStream
	var err error
	if *parseFlags.pif {
		toks, err = pif.NewTokenStream(cgram, src)
	} else {
		toks, err = parser.NewTokenStream(cgram, src)
	}
	if err != nil {
		return err
	}

	gram := parser.NewGrammar(cgram)
	var opts []parser.ParserOption
	var actLog *parser.ActionLog
	if *parseFlags.logActions || cfg.Parse.LogActions {
		actLog = parser.NewActionLog(gram)
		opts = append(opts, parser.SemanticAction(actLog))
	}

	p, err := parser.NewParser(toks, gram, opts...)
	if err != nil {
		return err
	}

	err = p.Parse()
	if actLog != nil {
		actLog.Render(w)
	}
	if err != nil {
		var synErr *parser.SyntaxError
		if !errors.As(err, &synErr) {
			return err
		}
		writeSyntaxError(errW, synErr)
		return errors.New("the input was rejected")
	}

	pterm.Info.WithWriter(w).Printfln("accepted; productions: %v", formatTrace(p.Trace()))
	if *parseFlags.nodeTable || cfg.Parse.NodeTable {
		parser.PrintNodeTable(w, p.Tree())
	}
	if !*parseFlags.noTree && cfg.Parse.Tree {
		err := parser.PrintTree(w, p.Tree())
		if err != nil {
			return err
		}
	}

	return nil
}

func writeSyntaxError(w io.Writer, synErr *parser.SyntaxError) {
	red := color.New(color.FgRed)
	if synErr.Row > 0 {
		red.Fprintf(w, "%v:%v: ", synErr.Row, synErr.Col)
	}
	red.Fprintf(w, "syntax error at token #%v: %v: '%v'", synErr.Position, synErr.Message, synErr.FoundLexeme)
	if synErr.FoundTerminal != "" {
		fmt.Fprintf(w, " (%v)", synErr.FoundTerminal)
	}
	fmt.Fprintf(w, "\n")
	color.New(color.FgYellow).Fprintf(w, "  expected: %v", synErr.Expected)
	if len(synErr.ExpectedTerminals) > 0 {
		fmt.Fprintf(w, "; one of: %v", strings.Join(synErr.ExpectedTerminals, ", "))
	}
	fmt.Fprintf(w, "\n")
}

func formatTrace(trace []int) string {
	var b strings.Builder
	for i, prod := range trace {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%v", prod)
	}
	return b.String()
}
