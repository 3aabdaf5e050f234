package parser

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihei9/ll1/grammar"
	spec "github.com/nihei9/ll1/spec/grammar"
)

const arithSrc = `
name: arith
start: S
terminals: ["+", "*", "(", ")", a]
non_terminals: [S, A, B, C, D]
productions:
  - {id: 1, lhs: S, rhs: [B, A]}
  - {id: 2, lhs: A, rhs: ["+", B, A]}
  - {id: 3, lhs: A, rhs: ["ε"]}
  - {id: 4, lhs: B, rhs: [D, C]}
  - {id: 5, lhs: C, rhs: ["*", D, C]}
  - {id: 6, lhs: C, rhs: ["ε"]}
  - {id: 7, lhs: D, rhs: ["(", S, ")"]}
  - {id: 8, lhs: D, rhs: [a]}
`

func compileGrammar(t *testing.T, src string) *spec.CompiledGrammar {
	t.Helper()

	def, err := spec.ParseGrammarDefinition(strings.NewReader(src))
	require.NoError(t, err)
	b := grammar.GrammarBuilder{
		Definition: def,
	}
	gram, err := b.Build()
	require.NoError(t, err)
	cg, _, err := grammar.Compile(gram)
	require.NoError(t, err)
	return cg
}

func compileGrammarFile(t *testing.T, path string) *spec.CompiledGrammar {
	t.Helper()

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	return compileGrammar(t, string(src))
}

// charTokens classifies each character of src as the terminal of the same text.
func charTokens(src string) []*Token {
	var toks []*Token
	for i, c := range src {
		toks = append(toks, &Token{
			Class:  string(c),
			Lexeme: string(c),
			Row:    1,
			Col:    i + 1,
		})
	}
	return toks
}

func parse(t *testing.T, cg *spec.CompiledGrammar, toks []*Token, opts ...ParserOption) (*Parser, error) {
	t.Helper()

	ts, err := NewTokenStreamFromTokens(cg, toks)
	require.NoError(t, err)
	p, err := NewParser(ts, NewGrammar(cg), opts...)
	require.NoError(t, err)
	return p, p.Parse()
}

func leafLabels(tree *Tree) []string {
	var labels []string
	for _, l := range tree.Leaves() {
		labels = append(labels, l.Label)
	}
	return labels
}

func TestParser_Parse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ll1.driver.parser")
	defer teardown()

	cg := compileGrammar(t, arithSrc)

	tests := []struct {
		caption string
		src     string
		trace   []int
	}{
		{
			caption: "a sum",
			src:     "a+a",
			trace:   []int{1, 4, 8, 6, 2, 4, 8, 6, 3},
		},
		{
			caption: "a product of a parenthesized sum",
			src:     "(a+a)*a",
			trace:   []int{1, 4, 7, 1, 4, 8, 6, 2, 4, 8, 6, 3, 5, 8, 6, 3},
		},
		{
			caption: "a single factor",
			src:     "a",
			trace:   []int{1, 4, 8, 6, 3},
		},
		{
			caption: "nested parentheses",
			src:     "((a))",
			trace:   []int{1, 4, 7, 1, 4, 7, 1, 4, 8, 6, 3, 6, 3, 6, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			p, err := parse(t, cg, charTokens(tt.src))
			require.NoError(t, err)

			assert.Equal(t, tt.trace, p.Trace())

			tree := p.Tree()
			require.NotNil(t, tree)
			assert.Equal(t, "S", tree.Root().Label)
			assert.Equal(t, strings.Split(tt.src, ""), leafLabels(tree))
		})
	}
}

func TestParser_Parse_TreeLinks(t *testing.T) {
	cg := compileGrammar(t, arithSrc)
	p, err := parse(t, cg, charTokens("a+a"))
	require.NoError(t, err)
	tree := p.Tree()

	type link struct {
		label   string
		symbol  string
		kind    NodeKind
		parent  int
		sibling int
	}
	expected := []link{
		{label: "S", symbol: "S", kind: NodeKindNonTerminal, parent: 0, sibling: 0},
		{label: "B", symbol: "B", kind: NodeKindNonTerminal, parent: 1, sibling: 3},
		{label: "A", symbol: "A", kind: NodeKindNonTerminal, parent: 1, sibling: 0},
		{label: "D", symbol: "D", kind: NodeKindNonTerminal, parent: 2, sibling: 5},
		{label: "C", symbol: "C", kind: NodeKindNonTerminal, parent: 2, sibling: 0},
		{label: "a", symbol: "a", kind: NodeKindTerminal, parent: 4, sibling: 0},
		{label: "ε", symbol: "ε", kind: NodeKindEmpty, parent: 5, sibling: 0},
		{label: "+", symbol: "+", kind: NodeKindTerminal, parent: 3, sibling: 9},
		{label: "B", symbol: "B", kind: NodeKindNonTerminal, parent: 3, sibling: 10},
		{label: "A", symbol: "A", kind: NodeKindNonTerminal, parent: 3, sibling: 0},
		{label: "D", symbol: "D", kind: NodeKindNonTerminal, parent: 9, sibling: 12},
		{label: "C", symbol: "C", kind: NodeKindNonTerminal, parent: 9, sibling: 0},
		{label: "a", symbol: "a", kind: NodeKindTerminal, parent: 11, sibling: 0},
		{label: "ε", symbol: "ε", kind: NodeKindEmpty, parent: 12, sibling: 0},
		{label: "ε", symbol: "ε", kind: NodeKindEmpty, parent: 10, sibling: 0},
	}
	require.Equal(t, len(expected), tree.Len())
	for i, e := range expected {
		n := tree.Node(i + 1)
		require.NotNil(t, n)
		assert.Equal(t, i+1, n.Index)
		assert.Equal(t, e.label, n.Label, "label of node %v", n.Index)
		assert.Equal(t, e.symbol, n.Symbol, "symbol of node %v", n.Index)
		assert.Equal(t, e.kind, n.Kind, "kind of node %v", n.Index)
		assert.Equal(t, e.parent, n.Parent, "parent of node %v", n.Index)
		assert.Equal(t, e.sibling, n.Sibling, "sibling of node %v", n.Index)
	}

	var children []int
	for _, c := range tree.Children(3) {
		children = append(children, c.Index)
	}
	assert.Equal(t, []int{8, 9, 10}, children)
	assert.Empty(t, tree.Children(6))
	assert.Nil(t, tree.Node(0))
	assert.Nil(t, tree.Node(16))
}

func TestParser_Parse_ParenthesizedBranch(t *testing.T) {
	cg := compileGrammar(t, arithSrc)
	p, err := parse(t, cg, charTokens("(a+a)*a"))
	require.NoError(t, err)
	tree := p.Tree()

	b := tree.Children(tree.Root().Index)[0]
	require.Equal(t, "B", b.Label)
	d := tree.Children(b.Index)[0]
	require.Equal(t, "D", d.Label)
	dChildren := tree.Children(d.Index)
	require.Len(t, dChildren, 3)
	assert.Equal(t, "(", dChildren[0].Label)
	assert.Equal(t, "S", dChildren[1].Symbol)
	assert.Equal(t, ")", dChildren[2].Label)
}

func TestParser_Parse_EmptyRHS(t *testing.T) {
	cg := compileGrammar(t, `
name: test
start: s
terminals: [x]
non_terminals: [s]
productions:
  - {id: 1, lhs: s, rhs: [x, s]}
  - {id: 2, lhs: s, rhs: []}
`)
	p, err := parse(t, cg, charTokens("xx"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2}, p.Trace())

	tree := p.Tree()
	// An empty RHS creates no children, while the empty marker creates a node.
	assert.Equal(t, 5, tree.Len())
	assert.Empty(t, tree.Children(5))
	assert.Equal(t, []string{"x", "x"}, leafLabels(tree))
}

func TestParser_Parse_SyntaxError(t *testing.T) {
	cg := compileGrammar(t, arithSrc)

	tests := []struct {
		caption string
		toks    []*Token
		synErr  *SyntaxError
		trace   []int
	}{
		{
			caption: "an input ends before a factor",
			toks:    charTokens("a+"),
			synErr: &SyntaxError{
				Position:          3,
				Expected:          "B",
				ExpectedTerminals: []string{"(", "a"},
				FoundTerminal:     "$",
				FoundLexeme:       "$",
				Message:           "unexpected token",
			},
			trace: []int{1, 4, 8, 6, 2},
		},
		{
			caption: "a terminal on top of the stack doesn't match",
			toks:    charTokens("(a"),
			synErr: &SyntaxError{
				Position:          3,
				Expected:          ")",
				ExpectedTerminals: []string{")"},
				FoundTerminal:     "$",
				FoundLexeme:       "$",
				Message:           "unexpected token",
			},
			trace: []int{1, 4, 7, 1, 4, 8, 6, 3},
		},
		{
			caption: "an input continues after a complete sentence",
			toks:    charTokens("a)"),
			synErr: &SyntaxError{
				Position:          2,
				Row:               1,
				Col:               2,
				Expected:          "$",
				ExpectedTerminals: []string{"$"},
				FoundTerminal:     ")",
				FoundLexeme:       ")",
				Message:           "unexpected token",
			},
			trace: []int{1, 4, 8, 6, 3},
		},
		{
			caption: "a token of an unknown class is invalid",
			toks: []*Token{
				{Class: "number", Lexeme: "100"},
			},
			synErr: &SyntaxError{
				Position:          1,
				Expected:          "S",
				ExpectedTerminals: []string{"(", "a"},
				FoundLexeme:       "100",
				Message:           "invalid token",
			},
		},
		{
			caption: "an empty input",
			toks:    []*Token{},
			synErr: &SyntaxError{
				Position:          1,
				Expected:          "S",
				ExpectedTerminals: []string{"(", "a"},
				FoundTerminal:     "$",
				FoundLexeme:       "$",
				Message:           "unexpected token",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			p, err := parse(t, cg, tt.toks)
			var synErr *SyntaxError
			require.True(t, errors.As(err, &synErr), "unexpected error: %v", err)
			assert.Equal(t, tt.synErr, synErr)
			assert.Equal(t, tt.trace, p.Trace())
			assert.Nil(t, p.Tree())
		})
	}
}

func TestSyntaxError_Error(t *testing.T) {
	err := &SyntaxError{
		Position:          3,
		Expected:          "B",
		ExpectedTerminals: []string{"(", "a"},
		FoundTerminal:     "$",
		FoundLexeme:       "$",
		Message:           "unexpected token",
	}
	assert.Equal(t, "syntax error at token #3: unexpected token; value: '$', expected: B ((, a), found terminal: $", err.Error())

	err.Row = 2
	err.Col = 5
	assert.Contains(t, err.Error(), "#3 (2:5)")
}

func TestParser_Parse_Twice(t *testing.T) {
	cg := compileGrammar(t, arithSrc)
	p, err := parse(t, cg, charTokens("a"))
	require.NoError(t, err)
	assert.Error(t, p.Parse())
	assert.NotNil(t, p.Tree())
}

func TestNewParser_NilSemanticAction(t *testing.T) {
	cg := compileGrammar(t, arithSrc)
	ts, err := NewTokenStreamFromTokens(cg, charTokens("a"))
	require.NoError(t, err)
	_, err = NewParser(ts, NewGrammar(cg), SemanticAction(nil))
	assert.Error(t, err)
}

func TestNewTokenStreamFromTokens(t *testing.T) {
	cg := compileGrammar(t, arithSrc)

	t.Run("the end marker is appended", func(t *testing.T) {
		ts, err := NewTokenStreamFromTokens(cg, charTokens("a"))
		require.NoError(t, err)

		tok, err := ts.Next()
		require.NoError(t, err)
		assert.False(t, tok.EOF())
		assert.Equal(t, "a", string(tok.Lexeme()))
		row, col := tok.Position()
		assert.Equal(t, 1, row)
		assert.Equal(t, 1, col)

		tok, err = ts.Next()
		require.NoError(t, err)
		assert.True(t, tok.EOF())
		assert.Equal(t, cg.Syntactic.EOFSymbol, tok.TerminalID())

		_, err = ts.Next()
		assert.Error(t, err)
	})

	t.Run("the end marker cannot be given explicitly", func(t *testing.T) {
		_, err := NewTokenStreamFromTokens(cg, []*Token{{Class: "$", Lexeme: "$"}})
		assert.Error(t, err)
	})
}

func TestNewTokenStream(t *testing.T) {
	cg := compileGrammarFile(t, "../../examples/arith/arith.yaml")

	t.Run("a source text is split by the lexical specification", func(t *testing.T) {
		src := "( a + a )\n* a"
		ts, err := NewTokenStream(cg, strings.NewReader(src))
		require.NoError(t, err)
		p, err := NewParser(ts, NewGrammar(cg))
		require.NoError(t, err)
		require.NoError(t, p.Parse())

		leaves := p.Tree().Leaves()
		assert.Equal(t, []string{"(", "a", "+", "a", ")", "*", "a"}, leafLabels(p.Tree()))
		last := leaves[len(leaves)-1]
		assert.Equal(t, 2, last.Row)
		assert.Equal(t, 3, last.Col)
	})

	t.Run("an unknown character is an invalid token", func(t *testing.T) {
		ts, err := NewTokenStream(cg, strings.NewReader("a+#"))
		require.NoError(t, err)
		p, err := NewParser(ts, NewGrammar(cg))
		require.NoError(t, err)
		err = p.Parse()
		var synErr *SyntaxError
		require.True(t, errors.As(err, &synErr), "unexpected error: %v", err)
		assert.Equal(t, 3, synErr.Position)
		assert.Equal(t, "invalid token", synErr.Message)
		assert.Equal(t, "#", synErr.FoundLexeme)
	})

	t.Run("a grammar without a lexical specification", func(t *testing.T) {
		_, err := NewTokenStream(compileGrammar(t, arithSrc), strings.NewReader("a"))
		assert.Error(t, err)
	})
}

func TestPrintTree(t *testing.T) {
	cg := compileGrammar(t, arithSrc)
	p, err := parse(t, cg, charTokens("a*a"))
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, PrintTree(&b, p.Tree()))
	out := b.String()
	for _, text := range []string{"S (1)", "B (2)", "a (6)", "* (7)", "ε (12)"} {
		assert.Contains(t, out, text)
	}

	b.Reset()
	require.NoError(t, PrintTree(&b, nil))
	assert.Empty(t, b.String())
}

func TestPrintNodeTable(t *testing.T) {
	cg := compileGrammar(t, arithSrc)
	p, err := parse(t, cg, charTokens("a"))
	require.NoError(t, err)

	var b bytes.Buffer
	PrintNodeTable(&b, p.Tree())
	out := b.String()
	for _, text := range []string{"INDEX", "SYMBOL", "FATHER", "SIBLING"} {
		assert.Contains(t, out, text)
	}
	// One line per node in addition to the header and the borders.
	assert.Equal(t, p.Tree().Len()+4, strings.Count(out, "\n"))
}
