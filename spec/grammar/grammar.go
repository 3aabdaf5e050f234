package grammar

import (
	mlspec "github.com/nihei9/maleeni/spec"
)

const (
	ParserClassLL1 = "ll1"

	LexerMaleeni = "maleeni"
)

// CompiledGrammar is a portable form of an LL(1) grammar. A driver needs nothing else to parse an
// input.
type CompiledGrammar struct {
	Name         string            `json:"name"`
	Lexical      *LexicalSpec      `json:"lexical,omitempty"`
	Syntactic    *SyntacticSpec    `json:"syntactic"`
	TokenClasses map[string]string `json:"token_classes,omitempty"`
}

type LexicalSpec struct {
	Lexer   string   `json:"lexer"`
	Maleeni *Maleeni `json:"maleeni"`
}

type Maleeni struct {
	Spec           *mlspec.CompiledLexSpec `json:"spec"`
	KindToTerminal []int                   `json:"kind_to_terminal"`
	Skip           []int                   `json:"skip"`
}

// SyntacticSpec holds the symbols, the productions, and the parsing table of a grammar.
//
// Terminals and NonTerminals are indexed by symbol numbers and their index 0 is unused. The terminal
// number 1 is the end marker. LHSSymbols and RHSSymbols are indexed by production IDs; an RHS element
// is a terminal number t (t > 0), a negated non-terminal number, or 0 for the empty marker. IDs not
// used by the grammar have a zero LHS.
type SyntacticSpec struct {
	Class            string                `json:"class"`
	Terminals        []string              `json:"terminals"`
	TerminalCount    int                   `json:"terminal_count"`
	NonTerminals     []string              `json:"non_terminals"`
	NonTerminalCount int                   `json:"non_terminal_count"`
	StartSymbol      int                   `json:"start_symbol"`
	EOFSymbol        int                   `json:"eof_symbol"`
	EmptyMarker      string                `json:"empty_marker"`
	LHSSymbols       []int                 `json:"lhs_symbols"`
	RHSSymbols       [][]int               `json:"rhs_symbols"`
	Table            *RowDisplacementTable `json:"table"`
}

// RowDisplacementTable is a compressed parsing table. Rows are non-terminal numbers, columns are
// terminal numbers, and each entry is a production ID or EmptyValue.
type RowDisplacementTable struct {
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
	EmptyValue       int   `json:"empty_value"`
	Entries          []int `json:"entries"`
	Bounds           []int `json:"bounds"`
	RowDisplacement  []int `json:"row_displacement"`
}
