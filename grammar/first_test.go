package grammar

import (
	"testing"

	"github.com/nihei9/ll1/grammar/symbol"
)

type first struct {
	lhs     string
	num     int
	dot     int
	symbols []string
	empty   bool
}

func TestGenFirst(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		first   []first
	}{
		{
			caption: "productions contain empty productions",
			src:     arithSrc,
			first: []first{
				{lhs: "S", num: 0, dot: 0, symbols: []string{"(", "a"}},
				{lhs: "S", num: 0, dot: 1, symbols: []string{"+"}, empty: true},
				{lhs: "A", num: 0, dot: 0, symbols: []string{"+"}},
				{lhs: "A", num: 0, dot: 1, symbols: []string{"(", "a"}},
				{lhs: "A", num: 0, dot: 3, symbols: []string{}, empty: true},
				{lhs: "A", num: 1, dot: 0, symbols: []string{}, empty: true},
				{lhs: "B", num: 0, dot: 0, symbols: []string{"(", "a"}},
				{lhs: "B", num: 0, dot: 1, symbols: []string{"*"}, empty: true},
				{lhs: "C", num: 0, dot: 0, symbols: []string{"*"}},
				{lhs: "C", num: 1, dot: 0, symbols: []string{}, empty: true},
				{lhs: "D", num: 0, dot: 0, symbols: []string{"("}},
				{lhs: "D", num: 0, dot: 1, symbols: []string{"(", "a"}},
				{lhs: "D", num: 0, dot: 2, symbols: []string{")"}},
				{lhs: "D", num: 1, dot: 0, symbols: []string{"a"}},
			},
		},
		{
			caption: "a nullable non-terminal lets the scan reach the next symbol",
			src: `
name: test
start: s
terminals: [x, y]
non_terminals: [s, n, m]
productions:
  - {id: 1, lhs: s, rhs: [n, m, y]}
  - {id: 2, lhs: n, rhs: ["ε"]}
  - {id: 3, lhs: m, rhs: [x]}
  - {id: 4, lhs: m, rhs: []}
`,
			first: []first{
				{lhs: "s", num: 0, dot: 0, symbols: []string{"x", "y"}},
				{lhs: "s", num: 0, dot: 1, symbols: []string{"x", "y"}},
				{lhs: "s", num: 0, dot: 2, symbols: []string{"y"}},
				{lhs: "n", num: 0, dot: 0, symbols: []string{}, empty: true},
				{lhs: "m", num: 0, dot: 0, symbols: []string{"x"}},
				{lhs: "m", num: 1, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "a production derives only the empty string through a chain of non-terminals",
			src: `
name: test
start: s
terminals: [x]
non_terminals: [s, n, m]
productions:
  - {id: 1, lhs: s, rhs: [n]}
  - {id: 2, lhs: s, rhs: [x]}
  - {id: 3, lhs: n, rhs: [m]}
  - {id: 4, lhs: m, rhs: ["ε"]}
`,
			first: []first{
				{lhs: "s", num: 0, dot: 0, symbols: []string{}, empty: true},
				{lhs: "s", num: 1, dot: 0, symbols: []string{"x"}},
				{lhs: "n", num: 0, dot: 0, symbols: []string{}, empty: true},
				{lhs: "m", num: 0, dot: 0, symbols: []string{}, empty: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := buildGrammar(t, tt.src)
			fst, err := genFirstSet(gram.productionSet, gram.symbolTable.Reader().NonTerminalSymbols())
			if err != nil {
				t.Fatal(err)
			}
			if fst == nil {
				t.Fatal("genFirstSet returned nil without any error")
			}

			genSym := newTestSymbolGenerator(t, gram.symbolTable.Reader())
			for _, ttFirst := range tt.first {
				lhsSym := genSym(ttFirst.lhs)
				prod, ok := gram.productionSet.findByLHS(lhsSym)
				if !ok {
					t.Fatalf("a production was not found; LHS: %v (%v)", ttFirst.lhs, lhsSym)
				}

				actualFirst, err := fst.find(prod[ttFirst.num], ttFirst.dot)
				if err != nil {
					t.Fatalf("failed to get a FIRST set; LHS: %v (%v), num: %v, dot: %v, error: %v", ttFirst.lhs, lhsSym, ttFirst.num, ttFirst.dot, err)
				}

				expectedFirst := genExpectedFirstEntry(t, ttFirst.symbols, ttFirst.empty, genSym)

				testFirst(t, actualFirst, expectedFirst)
			}
		})
	}
}

func TestAnalysis_First(t *testing.T) {
	a := analyze(t, buildGrammar(t, arithSrc))

	tests := []struct {
		nonTerminal string
		first       []string
		nullable    bool
	}{
		{nonTerminal: "S", first: []string{"(", "a"}},
		{nonTerminal: "A", first: []string{"+", "ε"}, nullable: true},
		{nonTerminal: "B", first: []string{"(", "a"}},
		{nonTerminal: "C", first: []string{"*", "ε"}, nullable: true},
		{nonTerminal: "D", first: []string{"(", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.nonTerminal, func(t *testing.T) {
			fst, err := a.First(tt.nonTerminal)
			if err != nil {
				t.Fatal(err)
			}
			testTexts(t, "FIRST", fst, tt.first)
			if a.Nullable(tt.nonTerminal) != tt.nullable {
				t.Fatalf("unexpected nullability; want: %v, got: %v", tt.nullable, a.Nullable(tt.nonTerminal))
			}
		})
	}

	t.Run("a terminal is not a non-terminal", func(t *testing.T) {
		if _, err := a.First("a"); err == nil {
			t.Fatalf("expected error didn't occur")
		}
	})
}

func TestAnalysis_FirstOfSequence(t *testing.T) {
	a := analyze(t, buildGrammar(t, arithSrc))

	tests := []struct {
		caption string
		seq     []string
		first   []string
	}{
		{
			caption: "an empty sequence is nullable",
			seq:     []string{},
			first:   []string{"ε"},
		},
		{
			caption: "the empty marker contributes nothing",
			seq:     []string{"ε", "ε"},
			first:   []string{"ε"},
		},
		{
			caption: "a terminal stops the scan",
			seq:     []string{"ε", "*", "D"},
			first:   []string{"*"},
		},
		{
			caption: "a non-nullable non-terminal stops the scan",
			seq:     []string{"D", "+"},
			first:   []string{"(", "a"},
		},
		{
			caption: "nullable non-terminals let the scan go on",
			seq:     []string{"C", "A", ")"},
			first:   []string{"*", "+", ")"},
		},
		{
			caption: "a sequence of nullable non-terminals is nullable",
			seq:     []string{"C", "A"},
			first:   []string{"*", "+", "ε"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			fst, err := a.FirstOfSequence(tt.seq...)
			if err != nil {
				t.Fatal(err)
			}
			testTexts(t, "FIRST", fst, tt.first)
		})
	}

	t.Run("an undefined symbol is an error", func(t *testing.T) {
		if _, err := a.FirstOfSequence("A", "undefined"); err == nil {
			t.Fatalf("expected error didn't occur")
		}
	})
}

// Every FIRST set holds only terminals and the empty marker, and another pass over the productions
// adds nothing to the converged sets.
func TestGenFirst_Fixpoint(t *testing.T) {
	for _, path := range []string{"../examples/arith/arith.yaml", "../examples/au/au.yaml"} {
		t.Run(path, func(t *testing.T) {
			gram := buildGrammarFromFile(t, path)
			fst, err := genFirstSet(gram.productionSet, gram.symbolTable.Reader().NonTerminalSymbols())
			if err != nil {
				t.Fatal(err)
			}
			for nt, e := range fst.set {
				for sym := range e.symbols {
					if sym.Kind() != symbol.KindTerminal {
						t.Fatalf("FIRST(%v) contains a symbol that is not a terminal: %v", nt, sym)
					}
				}
			}

			cc := &firstComContext{
				first: fst,
			}
			for _, prod := range gram.productionSet.getAllProductions() {
				changed, err := genProdFirstEntry(cc, fst.findBySymbol(prod.lhs), prod)
				if err != nil {
					t.Fatal(err)
				}
				if changed {
					t.Fatalf("FIRST(%v) changed after convergence", prod.lhs)
				}
			}
		})
	}
}

func genExpectedFirstEntry(t *testing.T, symbols []string, empty bool, genSym testSymbolGenerator) *firstEntry {
	t.Helper()

	entry := newFirstEntry()
	if empty {
		entry.addEmpty()
	}
	for _, sym := range symbols {
		entry.add(genSym(sym))
	}

	return entry
}

func testFirst(t *testing.T, actual, expected *firstEntry) {
	t.Helper()

	if actual.empty != expected.empty {
		t.Errorf("empty is mismatched\nwant: %v\ngot: %v", expected.empty, actual.empty)
	}

	if len(actual.symbols) != len(expected.symbols) {
		t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected.symbols, actual.symbols)
	}

	for eSym := range expected.symbols {
		if _, ok := actual.symbols[eSym]; !ok {
			t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected.symbols, actual.symbols)
		}
	}
}
