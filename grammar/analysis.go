package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/nihei9/ll1/grammar/symbol"
)

// Analysis holds FIRST, FOLLOW, and the parsing table of a grammar. It is immutable and can be
// shared.
type Analysis struct {
	gram      *Grammar
	first     *firstSet
	follow    *followSet
	table     *ParsingTable
	conflicts error
}

// Analyze computes FIRST, then FOLLOW, then the parsing table. A grammar that isn't LL(1) still
// gets an analysis so that its sets and conflicts can be inspected; Table reports the conflicts.
func Analyze(gram *Grammar) (*Analysis, error) {
	r := gram.symbolTable.Reader()
	nonTerms := r.NonTerminalSymbols()

	first, err := genFirstSet(gram.productionSet, nonTerms)
	if err != nil {
		return nil, fmt.Errorf("failed to compute FIRST sets: %w", err)
	}

	follow, err := genFollowSet(gram.productionSet, first, nonTerms, gram.startSymbol)
	if err != nil {
		return nil, fmt.Errorf("failed to compute FOLLOW sets: %w", err)
	}

	terms, err := r.TerminalTexts()
	if err != nil {
		return nil, err
	}
	nonTermTexts, err := r.NonTerminalTexts()
	if err != nil {
		return nil, err
	}
	b := &ll1TableBuilder{
		prods:        gram.productionSet,
		first:        first,
		follow:       follow,
		termCount:    len(terms),
		nonTermCount: len(nonTermTexts),
		symTab:       r,
	}
	tab, err := b.build()
	if err != nil {
		return nil, fmt.Errorf("failed to build a parsing table: %w", err)
	}

	return &Analysis{
		gram:      gram,
		first:     first,
		follow:    follow,
		table:     tab,
		conflicts: b.conflictError(),
	}, nil
}

func (a *Analysis) Grammar() *Grammar {
	return a.gram
}

// Table returns the parsing table, or a *ConflictError when the grammar isn't LL(1).
func (a *Analysis) Table() (*ParsingTable, error) {
	if a.conflicts != nil {
		return nil, a.conflicts
	}
	return a.table, nil
}

// Conflicts returns every conflict found while the table was built.
func (a *Analysis) Conflicts() []*Conflict {
	if a.conflicts == nil {
		return nil
	}
	return a.conflicts.(*ConflictError).Conflicts
}

// First returns FIRST of a non-terminal in ascending order of texts. The empty marker is included
// when the non-terminal is nullable.
func (a *Analysis) First(nonTerminal string) ([]string, error) {
	sym, err := a.toNonTerminal(nonTerminal)
	if err != nil {
		return nil, err
	}
	e := a.first.findBySymbol(sym)
	if e == nil {
		return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %v", nonTerminal)
	}
	return a.firstTexts(e), nil
}

// Follow returns FOLLOW of a non-terminal in ascending order of texts.
func (a *Analysis) Follow(nonTerminal string) ([]string, error) {
	sym, err := a.toNonTerminal(nonTerminal)
	if err != nil {
		return nil, err
	}
	e, err := a.follow.find(sym)
	if err != nil {
		return nil, err
	}
	set := treeset.NewWithStringComparator()
	for _, sym := range e.lookAheads() {
		set.Add(a.text(sym))
	}
	return setToTexts(set), nil
}

func (a *Analysis) Nullable(nonTerminal string) bool {
	sym, err := a.toNonTerminal(nonTerminal)
	if err != nil {
		return false
	}
	e := a.first.findBySymbol(sym)
	return e != nil && e.empty
}

// FirstOfSequence returns FIRST of a sequence of symbol texts. An empty sequence yields the empty
// marker.
func (a *Analysis) FirstOfSequence(texts ...string) ([]string, error) {
	r := a.gram.symbolTable.Reader()
	seq := make([]symbol.Symbol, len(texts))
	for i, text := range texts {
		sym, ok := r.ToSymbol(text)
		if !ok {
			return nil, fmt.Errorf("%w: %v", semErrUndefinedSym, text)
		}
		seq[i] = sym
	}
	e, err := a.first.findBySequence(seq)
	if err != nil {
		return nil, err
	}
	return a.firstTexts(e), nil
}

// Lookup returns the production ID of table[nonTerminal, terminal]. The conflicting keys of a
// non-LL(1) grammar hold the production written first.
func (a *Analysis) Lookup(nonTerminal, terminal string) (int, bool) {
	r := a.gram.symbolTable.Reader()
	nt, ok := r.ToSymbol(nonTerminal)
	if !ok {
		return 0, false
	}
	t, ok := r.ToSymbol(terminal)
	if !ok {
		return 0, false
	}
	prod, ok := a.table.lookup(nt, t)
	return prod.Int(), ok
}

// Entries calls `f` for every defined table entry, row by row in ascending order of symbol numbers.
func (a *Analysis) Entries(f func(nonTerminal, terminal string, prod int)) {
	r := a.gram.symbolTable.Reader()
	terms := r.TerminalSymbols()
	for _, nt := range r.NonTerminalSymbols() {
		for _, t := range terms {
			prod, ok := a.table.lookup(nt, t)
			if !ok {
				continue
			}
			f(a.text(nt), a.text(t), prod.Int())
		}
	}
}

func (a *Analysis) firstTexts(e *firstEntry) []string {
	set := treeset.NewWithStringComparator()
	for sym := range e.symbols {
		set.Add(a.text(sym))
	}
	if e.empty {
		set.Add(a.gram.symbolTable.Reader().EmptyText())
	}
	return setToTexts(set)
}

func (a *Analysis) toNonTerminal(text string) (symbol.Symbol, error) {
	sym, ok := a.gram.symbolTable.Reader().ToSymbol(text)
	if !ok || !sym.IsNonTerminal() {
		return symbol.SymbolNil, fmt.Errorf("%w: %v is not a non-terminal", semErrUndefinedSym, text)
	}
	return sym, nil
}

func (a *Analysis) text(sym symbol.Symbol) string {
	text, _ := a.gram.symbolTable.Reader().ToText(sym)
	return text
}

func setToTexts(set *treeset.Set) []string {
	texts := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		texts = append(texts, v.(string))
	}
	return texts
}
