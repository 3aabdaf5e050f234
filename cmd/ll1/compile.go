package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	verr "github.com/nihei9/ll1/error"
	"github.com/nihei9/ll1/grammar"
	spec "github.com/nihei9/ll1/spec/grammar"
)

var compileFlags = struct {
	output *string
	report *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar you defined into a parsing table",
		Example: `  ll1 compile grammar.yaml -o grammar.json -r grammar-report.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.report = cmd.Flags().StringP("report", "r", "", "report file path; the report is written even when the grammar has conflicts")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	var tmpDirPath string
	defer func() {
		if tmpDirPath == "" {
			return
		}
		os.RemoveAll(tmpDirPath)
	}()

	var grmPath string
	if len(args) > 0 {
		grmPath = args[0]
	}
	defer func() {
		var specErrs verr.SpecErrors
		if retErr == nil || !errors.As(retErr, &specErrs) {
			return
		}
		for _, err := range specErrs {
			err.FilePath = grmPath
			if len(args) > 0 {
				err.SourceName = grmPath
			} else {
				err.SourceName = "stdin"
			}
		}
	}()

	if grmPath == "" {
		var err error
		tmpDirPath, err = os.MkdirTemp("", "ll1-compile-*")
		if err != nil {
			return err
		}

		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}

		grmPath = filepath.Join(tmpDirPath, "stdin.yaml")
		err = os.WriteFile(grmPath, src, 0600)
		if err != nil {
			return err
		}
	}

	gram, err := readGrammar(grmPath)
	if err != nil {
		return err
	}

	cgram, report, err := grammar.Compile(gram, grammar.EnableReporting())
	if *compileFlags.report != "" && report != nil {
		wErr := writeJSON(report, *compileFlags.report)
		if wErr != nil {
			return fmt.Errorf("Cannot write a report: %w", wErr)
		}
	}
	if err != nil {
		return err
	}

	err = writeJSON(cgram, *compileFlags.output)
	if err != nil {
		return fmt.Errorf("Cannot write a compiled grammar: %w", err)
	}

	return nil
}

func readGrammar(path string) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	def, err := spec.ParseGrammarDefinition(f)
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		Definition: def,
	}
	return b.Build()
}

// writeJSON writes a value to a file in JSON. When the path is empty, it writes to the stdout.
func writeJSON(v interface{}, path string) error {
	var w io.Writer
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	return err
}

func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cgram := &spec.CompiledGrammar{}
	err = json.Unmarshal(data, cgram)
	if err != nil {
		return nil, err
	}
	if cgram.Syntactic == nil || cgram.Syntactic.Class != spec.ParserClassLL1 {
		return nil, fmt.Errorf("%v is not a compiled LL(1) grammar", path)
	}
	return cgram, nil
}
