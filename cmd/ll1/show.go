package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nihei9/ll1/grammar"
	spec "github.com/nihei9/ll1/spec/grammar"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show <grammar file path>|<report file path>",
		Short: "Print symbols, FIRST/FOLLOW sets, a parsing table, and conflicts of a grammar",
		Example: `  ll1 show grammar.yaml
  ll1 show grammar-report.json`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	var report *spec.Report
	var err error
	if filepath.Ext(args[0]) == ".json" {
		report, err = readReport(args[0])
	} else {
		report, err = genReportFromGrammar(args[0])
	}
	if err != nil {
		return err
	}

	return writeReport(os.Stdout, report)
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &spec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// genReportFromGrammar analyzes a grammar definition. Conflicts don't stop it because the report
// is what explains them.
func genReportFromGrammar(path string) (*spec.Report, error) {
	gram, err := readGrammar(path)
	if err != nil {
		return nil, err
	}
	_, report, err := grammar.Compile(gram, grammar.EnableReporting())
	if err != nil {
		var cErr *grammar.ConflictError
		if !errors.As(err, &cErr) || report == nil {
			return nil, err
		}
	}
	return report, nil
}

func writeReport(w io.Writer, report *spec.Report) error {
	fmt.Fprintf(w, "# %v\n\nstart: %v, end marker: %v, empty marker: %v\n", report.Name, report.Start, report.EndMarker, report.EmptyMarker)

	fmt.Fprintf(w, "\n# Terminals\n\n")
	{
		t := newReportTable(w)
		t.AppendHeader(table.Row{"#", "Name", "Pattern"})
		for _, term := range report.Terminals {
			t.AppendRow(table.Row{term.Number, term.Name, term.Pattern})
		}
		t.Render()
	}

	fmt.Fprintf(w, "\n# Non-terminals\n\n")
	{
		t := newReportTable(w)
		t.AppendHeader(table.Row{"#", "Name", "First", "Follow", "Nullable"})
		for _, nt := range report.NonTerminals {
			t.AppendRow(table.Row{nt.Number, nt.Name, formatSet(nt.First), formatSet(nt.Follow), nt.Nullable})
		}
		t.Render()
	}

	fmt.Fprintf(w, "\n# Productions\n\n")
	{
		t := newReportTable(w)
		t.AppendHeader(table.Row{"ID", "Production"})
		for _, p := range report.Productions {
			t.AppendRow(table.Row{p.ID, fmt.Sprintf("%v → %v", p.LHS, strings.Join(p.RHS, " "))})
		}
		t.Render()
	}

	fmt.Fprintf(w, "\n# Parsing Table\n\n")
	writeParsingTable(w, report)

	fmt.Fprintf(w, "\n# Conflicts\n\n")
	if len(report.Conflicts) == 0 {
		fmt.Fprintf(w, "no conflicts\n")
		return nil
	}
	{
		t := newReportTable(w)
		t.AppendHeader(table.Row{"Non-terminal", "Terminal", "Productions"})
		for _, c := range report.Conflicts {
			t.AppendRow(table.Row{c.NonTerminal, c.Terminal, fmt.Sprintf("%v, %v", c.Production1, c.Production2)})
		}
		t.Render()
	}

	return nil
}

// writeParsingTable prints the table as a matrix whose rows are non-terminals and whose columns
// are terminals. Empty cells mean errors.
func writeParsingTable(w io.Writer, report *spec.Report) {
	cells := map[string]map[string]int{}
	for _, e := range report.Table {
		row, ok := cells[e.NonTerminal]
		if !ok {
			row = map[string]int{}
			cells[e.NonTerminal] = row
		}
		row[e.Terminal] = e.Production
	}

	t := newReportTable(w)
	header := table.Row{""}
	for _, term := range report.Terminals {
		header = append(header, term.Name)
	}
	t.AppendHeader(header)
	for _, nt := range report.NonTerminals {
		row := table.Row{nt.Name}
		for _, term := range report.Terminals {
			if prod, ok := cells[nt.Name][term.Name]; ok {
				row = append(row, prod)
			} else {
				row = append(row, "")
			}
		}
		t.AppendRow(row)
	}
	t.Render()
}

func newReportTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func formatSet(texts []string) string {
	return "{" + strings.Join(texts, ", ") + "}"
}
