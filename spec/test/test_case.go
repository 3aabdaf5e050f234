// Package test defines grammar test cases. A test case gives an input and the expected outcome of
// parsing it: acceptance, leaves, a production trace, a derivation tree, or a syntax error.
package test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Diff is a mismatch between an expected outcome and an actual one. The paths locate mismatched tree
// nodes and are empty for other mismatches.
type Diff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newTreeDiff(expected, actual *Tree, message string) *Diff {
	return &Diff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

func newDiff(format string, a ...interface{}) *Diff {
	return &Diff{
		Message: fmt.Sprintf(format, a...),
	}
}

// Tree is a derivation tree. Kind is a grammar symbol and Lexeme is the lexeme of a terminal.
type Tree struct {
	Parent   *Tree   `yaml:"-"`
	Offset   int     `yaml:"-"`
	Kind     string  `yaml:"kind"`
	Lexeme   string  `yaml:"lexeme,omitempty"`
	Children []*Tree `yaml:"children,omitempty"`
}

func NewNonTerminalTree(kind string, children ...*Tree) *Tree {
	return &Tree{
		Kind:     kind,
		Children: children,
	}
}

func NewTerminalNode(kind string, lexeme string) *Tree {
	return &Tree{
		Kind:   kind,
		Lexeme: lexeme,
	}
}

// Fill sets the parent and the offset of each node.
func (t *Tree) Fill() *Tree {
	for i, c := range t.Children {
		c.Parent = t
		c.Offset = i
		c.Fill()
	}
	return t
}

func (t *Tree) path() string {
	if t.Parent == nil {
		return t.Kind
	}
	return fmt.Sprintf("%v.[%v]%v", t.Parent.path(), t.Offset, t.Kind)
}

// Format returns a tree in the S-expression form.
func (t *Tree) Format() []byte {
	var b bytes.Buffer
	t.format(&b, 0)
	return b.Bytes()
}

func (t *Tree) format(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("    ")
	}
	buf.WriteString("(")
	buf.WriteString(t.Kind)
	if t.Lexeme != "" {
		fmt.Fprintf(buf, " '%v'", t.Lexeme)
	}
	if len(t.Children) > 0 {
		buf.WriteString("\n")
		for i, c := range t.Children {
			c.format(buf, depth+1)
			if i < len(t.Children)-1 {
				buf.WriteString("\n")
			}
		}
	}
	buf.WriteString(")")
}

// DiffTree compares two trees. The kind `_` in an expected tree matches any symbol, and an empty
// lexeme in an expected tree matches any lexeme.
func DiffTree(expected, actual *Tree) []*Diff {
	if expected == nil && actual == nil {
		return nil
	}
	if expected.Kind != "_" && actual.Kind != expected.Kind {
		msg := fmt.Sprintf("unexpected kind: expected '%v' but got '%v'", expected.Kind, actual.Kind)
		return []*Diff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if expected.Lexeme != "" && expected.Lexeme != actual.Lexeme {
		msg := fmt.Sprintf("unexpected lexeme: expected '%v' but got '%v'", expected.Lexeme, actual.Lexeme)
		return []*Diff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*Diff{
			newTreeDiff(expected, actual, msg),
		}
	}
	var diffs []*Diff
	for i, exp := range expected.Children {
		if ds := DiffTree(exp, actual.Children[i]); len(ds) > 0 {
			diffs = append(diffs, ds...)
		}
	}
	return diffs
}

type Token struct {
	Class  string `yaml:"class"`
	Lexeme string `yaml:"lexeme"`
}

// SyntaxError is an expected syntax error. Zero fields match anything.
type SyntaxError struct {
	Position int `yaml:"position"`

	// Symbol is the symbol on top of the parse stack.
	Symbol string `yaml:"symbol"`

	// Expected lists the expected terminals in any order.
	Expected []string `yaml:"expected"`
	Found    string   `yaml:"found"`
}

// TestCase is a test case. The input is either Source, a text split by the lexical specification of
// a grammar, or Tokens, already classified tokens. Leaves, Trace, and Tree are checked only when
// they are given.
type TestCase struct {
	Name   string       `yaml:"name"`
	Source string       `yaml:"source"`
	Tokens []*Token     `yaml:"tokens"`
	Accept bool         `yaml:"accept"`
	Leaves []string     `yaml:"leaves"`
	Trace  []int        `yaml:"trace"`
	Tree   *Tree        `yaml:"tree"`
	Error  *SyntaxError `yaml:"error"`
}

func ParseTestCase(r io.Reader) (*TestCase, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var c TestCase
	err := dec.Decode(&c)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("a test case is empty")
		}
		return nil, err
	}
	if c.Source != "" && c.Tokens != nil {
		return nil, fmt.Errorf("a test case cannot have both a source and tokens")
	}
	if c.Accept && c.Error != nil {
		return nil, fmt.Errorf("a test case expecting acceptance cannot expect a syntax error")
	}
	if !c.Accept && c.Tree != nil {
		return nil, fmt.Errorf("a test case expecting a syntax error cannot expect a tree")
	}
	if c.Tree != nil {
		c.Tree.Fill()
	}
	return &c, nil
}

// Outcome is the actual result of parsing the input of a test case.
type Outcome struct {
	Accepted bool
	Leaves   []string
	Trace    []int
	Tree     *Tree
	Error    *SyntaxError
}

// Diff compares an outcome with the expectation of a test case.
func (c *TestCase) Diff(o *Outcome) []*Diff {
	if o.Accepted != c.Accept {
		if o.Error != nil {
			return []*Diff{
				newDiff("unexpected syntax error at token #%v: expected: %v, found: %v", o.Error.Position, o.Error.Symbol, o.Error.Found),
			}
		}
		return []*Diff{
			newDiff("the input was accepted unexpectedly"),
		}
	}

	var diffs []*Diff
	if c.Leaves != nil && !equalStrings(c.Leaves, o.Leaves) {
		diffs = append(diffs, newDiff("unexpected leaves: expected [%v] but got [%v]", strings.Join(c.Leaves, " "), strings.Join(o.Leaves, " ")))
	}
	if c.Trace != nil && !equalInts(c.Trace, o.Trace) {
		diffs = append(diffs, newDiff("unexpected trace: expected %v but got %v", c.Trace, o.Trace))
	}
	if c.Tree != nil && o.Tree != nil {
		diffs = append(diffs, DiffTree(c.Tree, o.Tree.Fill())...)
	}
	if c.Error != nil && o.Error != nil {
		e, a := c.Error, o.Error
		if e.Position != 0 && e.Position != a.Position {
			diffs = append(diffs, newDiff("unexpected error position: expected %v but got %v", e.Position, a.Position))
		}
		if e.Symbol != "" && e.Symbol != a.Symbol {
			diffs = append(diffs, newDiff("unexpected symbol on top of the stack: expected '%v' but got '%v'", e.Symbol, a.Symbol))
		}
		if e.Expected != nil && !equalStringSets(e.Expected, a.Expected) {
			diffs = append(diffs, newDiff("unexpected expected terminals: expected [%v] but got [%v]", strings.Join(e.Expected, " "), strings.Join(a.Expected, " ")))
		}
		if e.Found != "" && e.Found != a.Found {
			diffs = append(diffs, newDiff("unexpected found terminal: expected '%v' but got '%v'", e.Found, a.Found))
		}
	}
	return diffs
}

func equalStrings(s1, s2 []string) bool {
	if len(s1) != len(s2) {
		return false
	}
	for i := range s1 {
		if s1[i] != s2[i] {
			return false
		}
	}
	return true
}

func equalInts(s1, s2 []int) bool {
	if len(s1) != len(s2) {
		return false
	}
	for i := range s1 {
		if s1[i] != s2[i] {
			return false
		}
	}
	return true
}

func equalStringSets(s1, s2 []string) bool {
	if len(s1) != len(s2) {
		return false
	}
	m := map[string]int{}
	for _, s := range s1 {
		m[s]++
	}
	for _, s := range s2 {
		m[s]--
		if m[s] < 0 {
			return false
		}
	}
	return true
}
