package parser

import (
	"github.com/nihei9/ll1/compressor"
	spec "github.com/nihei9/ll1/spec/grammar"
)

type grammarImpl struct {
	g   *spec.CompiledGrammar
	tab *compressor.RowDisplacementTable
}

func NewGrammar(g *spec.CompiledGrammar) *grammarImpl {
	t := g.Syntactic.Table
	return &grammarImpl{
		g: g,
		tab: &compressor.RowDisplacementTable{
			OriginalRowCount: t.OriginalRowCount,
			OriginalColCount: t.OriginalColCount,
			EmptyValue:       t.EmptyValue,
			Entries:          t.Entries,
			Bounds:           t.Bounds,
			RowDisplacement:  t.RowDisplacement,
		},
	}
}

func (g *grammarImpl) StartSymbol() int {
	return g.g.Syntactic.StartSymbol
}

func (g *grammarImpl) Production(nonTerminal int, terminal int) int {
	prod, err := g.tab.Lookup(nonTerminal, terminal)
	if err != nil || prod == g.tab.EmptyValue {
		return 0
	}
	return prod
}

func (g *grammarImpl) ExpectedTerminals(nonTerminal int) []int {
	terms, err := g.tab.NonEmptyColumns(nonTerminal)
	if err != nil {
		return nil
	}
	return terms
}

func (g *grammarImpl) LHS(prod int) int {
	return g.g.Syntactic.LHSSymbols[prod]
}

func (g *grammarImpl) RHS(prod int) []int {
	return g.g.Syntactic.RHSSymbols[prod]
}

func (g *grammarImpl) EOF() int {
	return g.g.Syntactic.EOFSymbol
}

func (g *grammarImpl) TerminalCount() int {
	return g.g.Syntactic.TerminalCount
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.Syntactic.Terminals[terminal]
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.Syntactic.NonTerminals[nonTerminal]
}

func (g *grammarImpl) EmptyMarker() string {
	return g.g.Syntactic.EmptyMarker
}

// terminalNum returns the terminal number of a terminal text. It returns 0 when the text isn't a
// terminal.
func (g *grammarImpl) terminalNum(text string) int {
	for num, t := range g.g.Syntactic.Terminals {
		if num == 0 {
			continue
		}
		if t == text {
			return num
		}
	}
	return 0
}
