package grammar

import (
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/nihei9/ll1/grammar/symbol"
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

func buildGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	def, err := spec.ParseGrammarDefinition(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := GrammarBuilder{
		Definition: def,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return gram
}

func buildGrammarFromFile(t *testing.T, path string) *Grammar {
	t.Helper()

	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return buildGrammar(t, string(src))
}

func analyze(t *testing.T, gram *Grammar) *Analysis {
	t.Helper()

	a, err := Analyze(gram)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbol.SymbolTableReader) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := symTab.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

func testTexts(t *testing.T, caption string, actual, expected []string) {
	t.Helper()

	a := append([]string{}, actual...)
	e := append([]string{}, expected...)
	sort.Strings(a)
	sort.Strings(e)
	if len(a) != len(e) {
		t.Fatalf("unexpected %v\nwant: %v\ngot: %v", caption, e, a)
	}
	for i := range e {
		if a[i] != e[i] {
			t.Fatalf("unexpected %v\nwant: %v\ngot: %v", caption, e, a)
		}
	}
}
