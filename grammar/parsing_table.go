package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nihei9/ll1/grammar/symbol"
)

// ParsingTable maps a pair of a non-terminal and a terminal (or the end marker) to at most one
// production. Rows are indexed by non-terminal numbers and columns by terminal numbers.
type ParsingTable struct {
	entries          []productionID
	terminalCount    int
	nonTerminalCount int
}

func newParsingTable(termCount, nonTermCount int) *ParsingTable {
	return &ParsingTable{
		entries:          make([]productionID, termCount*nonTermCount),
		terminalCount:    termCount,
		nonTerminalCount: nonTermCount,
	}
}

func (t *ParsingTable) read(nonTerm symbol.Symbol, term symbol.Symbol) productionID {
	return t.entries[nonTerm.Num().Int()*t.terminalCount+term.Num().Int()]
}

func (t *ParsingTable) write(nonTerm symbol.Symbol, term symbol.Symbol, prod productionID) {
	t.entries[nonTerm.Num().Int()*t.terminalCount+term.Num().Int()] = prod
}

func (t *ParsingTable) lookup(nonTerm symbol.Symbol, term symbol.Symbol) (productionID, bool) {
	if !nonTerm.IsNonTerminal() || !term.IsTerminal() {
		return productionIDNil, false
	}
	if nonTerm.Num().Int() >= t.nonTerminalCount || term.Num().Int() >= t.terminalCount {
		return productionIDNil, false
	}
	prod := t.read(nonTerm, term)
	return prod, prod != productionIDNil
}

// flatten returns the table as a row-major slice. Empty entries are 0.
func (t *ParsingTable) flatten() []int {
	entries := make([]int, len(t.entries))
	for i, e := range t.entries {
		entries[i] = e.Int()
	}
	return entries
}

type conflict struct {
	nonTerminal symbol.Symbol
	terminal    symbol.Symbol
	prod1       productionID
	prod2       productionID
}

// Conflict is a table key claimed by two productions. Production1 is the one written first.
type Conflict struct {
	NonTerminal string
	Terminal    string
	Production1 int
	Production2 int
}

func (c *Conflict) String() string {
	return fmt.Sprintf("(%v, %v): productions %v and %v", c.NonTerminal, c.Terminal, c.Production1, c.Production2)
}

// ConflictError means a grammar is not LL(1).
type ConflictError struct {
	Conflicts []*Conflict
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "the grammar is not LL(1): %v conflict", len(e.Conflicts))
	if len(e.Conflicts) > 1 {
		fmt.Fprintf(&b, "s")
	}
	for _, c := range e.Conflicts {
		fmt.Fprintf(&b, "\n    %v", c)
	}
	return b.String()
}

// Contains reports whether the error includes a conflict between `prod1` and `prod2` at
// (nonTerminal, terminal). The order of the productions doesn't matter.
func (e *ConflictError) Contains(nonTerminal, terminal string, prod1, prod2 int) bool {
	for _, c := range e.Conflicts {
		if c.NonTerminal != nonTerminal || c.Terminal != terminal {
			continue
		}
		if (c.Production1 == prod1 && c.Production2 == prod2) || (c.Production1 == prod2 && c.Production2 == prod1) {
			return true
		}
	}
	return false
}

type ll1TableBuilder struct {
	prods        *productionSet
	first        *firstSet
	follow       *followSet
	termCount    int
	nonTermCount int
	symTab       *symbol.SymbolTableReader

	conflicts []*conflict
}

// build fills the table visiting productions in ascending order of IDs. A key already holding
// another production keeps it, and the clash is recorded as a conflict.
func (b *ll1TableBuilder) build() (*ParsingTable, error) {
	ptab := newParsingTable(b.termCount, b.nonTermCount)
	for _, prod := range b.prods.getAllProductions() {
		fst, err := b.first.find(prod, 0)
		if err != nil {
			return nil, err
		}
		for _, sym := range sortSymbols(fst.symbols) {
			b.writeEntry(ptab, prod.lhs, sym, prod.id)
		}
		if !fst.empty {
			continue
		}
		flw, err := b.follow.find(prod.lhs)
		if err != nil {
			return nil, err
		}
		las := flw.lookAheads()
		sort.Slice(las, func(i, j int) bool {
			return las[i].Num() < las[j].Num()
		})
		for _, sym := range las {
			b.writeEntry(ptab, prod.lhs, sym, prod.id)
		}
	}

	if len(b.conflicts) > 0 {
		tracer().Errorf("%v conflicts were found", len(b.conflicts))
	}

	return ptab, nil
}

func (b *ll1TableBuilder) writeEntry(tab *ParsingTable, nonTerm symbol.Symbol, term symbol.Symbol, prod productionID) {
	if p := tab.read(nonTerm, term); p != productionIDNil {
		if p != prod {
			b.conflicts = append(b.conflicts, &conflict{
				nonTerminal: nonTerm,
				terminal:    term,
				prod1:       p,
				prod2:       prod,
			})
		}
		return
	}
	tracer().Debugf("table[%v, %v] = %v", b.text(nonTerm), b.text(term), prod)
	tab.write(nonTerm, term, prod)
}

func (b *ll1TableBuilder) text(sym symbol.Symbol) string {
	text, ok := b.symTab.ToText(sym)
	if !ok {
		return sym.String()
	}
	return text
}

func (b *ll1TableBuilder) conflictError() error {
	if len(b.conflicts) == 0 {
		return nil
	}
	cs := make([]*Conflict, len(b.conflicts))
	for i, c := range b.conflicts {
		cs[i] = &Conflict{
			NonTerminal: b.text(c.nonTerminal),
			Terminal:    b.text(c.terminal),
			Production1: c.prod1.Int(),
			Production2: c.prod2.Int(),
		}
	}
	return &ConflictError{
		Conflicts: cs,
	}
}

func sortSymbols(syms map[symbol.Symbol]struct{}) []symbol.Symbol {
	sorted := make([]symbol.Symbol, 0, len(syms))
	for sym := range syms {
		sorted = append(sorted, sym)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	return sorted
}
