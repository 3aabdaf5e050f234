package grammar

import (
	spec "github.com/nihei9/ll1/spec/grammar"
)

func genReport(a *Analysis) *spec.Report {
	gram := a.gram
	r := gram.symbolTable.Reader()

	var terms []*spec.Terminal
	for _, sym := range r.TerminalSymbols() {
		terms = append(terms, &spec.Terminal{
			Number:  sym.Num().Int(),
			Name:    a.text(sym),
			Pattern: gram.sym2Pattern[sym],
		})
	}

	var nonTerms []*spec.NonTerminal
	for _, sym := range r.NonTerminalSymbols() {
		text := a.text(sym)
		fst, _ := a.First(text)
		flw, _ := a.Follow(text)
		nonTerms = append(nonTerms, &spec.NonTerminal{
			Number:   sym.Num().Int(),
			Name:     text,
			First:    fst,
			Follow:   flw,
			Nullable: a.Nullable(text),
		})
	}

	var prods []*spec.Production
	for _, p := range gram.Productions() {
		prods = append(prods, &spec.Production{
			ID:  p.ID,
			LHS: p.LHS,
			RHS: p.RHS,
		})
	}

	var entries []*spec.TableEntry
	a.Entries(func(nonTerminal, terminal string, prod int) {
		entries = append(entries, &spec.TableEntry{
			NonTerminal: nonTerminal,
			Terminal:    terminal,
			Production:  prod,
		})
	})

	var conflicts []*spec.Conflict
	for _, c := range a.Conflicts() {
		conflicts = append(conflicts, &spec.Conflict{
			NonTerminal: c.NonTerminal,
			Terminal:    c.Terminal,
			Production1: c.Production1,
			Production2: c.Production2,
		})
	}

	return &spec.Report{
		Name:         gram.name,
		Start:        gram.StartSymbol(),
		EndMarker:    r.EOFText(),
		EmptyMarker:  r.EmptyText(),
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		Table:        entries,
		Conflicts:    conflicts,
	}
}
