package tester

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/ll1/driver/parser"
	gspec "github.com/nihei9/ll1/spec/grammar"
	tspec "github.com/nihei9/ll1/spec/test"
)

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*tspec.Diff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.Message)
			if diff.ExpectedPath == "" {
				continue
			}
			diffLines = append(diffLines, fmt.Sprintf("%vexpected path: %v", indent1, diff.ExpectedPath))
			diffLines = append(diffLines, fmt.Sprintf("%vactual path:   %v", indent1, diff.ActualPath))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

// ListTestCases lists the test cases in a file or in a directory and its subdirectories.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*tspec.TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tspec.ParseTestCase(f)
}

type Tester struct {
	Grammar *gspec.CompiledGrammar
	Cases   []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runTest(t.Grammar, c))
	}
	return rs
}

func runTest(g *gspec.CompiledGrammar, c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}

	var p *parser.Parser
	{
		toks, err := newTokenStream(g, c.TestCase)
		if err != nil {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        err,
			}
		}
		p, err = parser.NewParser(toks, parser.NewGrammar(g))
		if err != nil {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        err,
			}
		}
	}

	o := &tspec.Outcome{}
	err := p.Parse()
	if err != nil {
		var synErr *parser.SyntaxError
		if !errors.As(err, &synErr) {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        err,
			}
		}
		o.Error = &tspec.SyntaxError{
			Position: synErr.Position,
			Symbol:   synErr.Expected,
			Expected: synErr.ExpectedTerminals,
			Found:    synErr.FoundTerminal,
		}
	} else {
		o.Accepted = true
		for _, l := range p.Tree().Leaves() {
			o.Leaves = append(o.Leaves, l.Label)
		}
		o.Tree = genTree(p.Tree(), p.Tree().Root())
	}
	o.Trace = p.Trace()

	diffs := c.TestCase.Diff(o)
	if len(diffs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}

func newTokenStream(g *gspec.CompiledGrammar, c *tspec.TestCase) (parser.TokenStream, error) {
	if c.Tokens == nil {
		return parser.NewTokenStream(g, strings.NewReader(c.Source))
	}
	toks := make([]*parser.Token, len(c.Tokens))
	for i, tok := range c.Tokens {
		toks[i] = &parser.Token{
			Class:  tok.Class,
			Lexeme: tok.Lexeme,
		}
	}
	return parser.NewTokenStreamFromTokens(g, toks)
}

func genTree(tree *parser.Tree, n *parser.Node) *tspec.Tree {
	if n.Kind == parser.NodeKindTerminal {
		return tspec.NewTerminalNode(n.Symbol, n.Label)
	}
	var children []*tspec.Tree
	for _, c := range tree.Children(n.Index) {
		children = append(children, genTree(tree, c))
	}
	return tspec.NewNonTerminalTree(n.Symbol, children...)
}
