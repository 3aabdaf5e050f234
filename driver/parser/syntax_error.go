package parser

import (
	"fmt"
	"strings"
)

// SyntaxError describes the first token the parser couldn't consume.
type SyntaxError struct {
	// Position is the 1-based position of the token in the token stream.
	Position int
	Row      int
	Col      int

	// Expected is the symbol on top of the stack when the error occurred.
	Expected          string
	ExpectedTerminals []string

	// FoundTerminal is empty when the token is invalid.
	FoundTerminal string
	FoundLexeme   string
	Message       string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "syntax error at token #%v", e.Position)
	if e.Row > 0 {
		fmt.Fprintf(&b, " (%v:%v)", e.Row, e.Col)
	}
	fmt.Fprintf(&b, ": %v; value: '%v', expected: %v", e.Message, e.FoundLexeme, e.Expected)
	if len(e.ExpectedTerminals) > 0 {
		fmt.Fprintf(&b, " (%v)", strings.Join(e.ExpectedTerminals, ", "))
	}
	if e.FoundTerminal != "" {
		fmt.Fprintf(&b, ", found terminal: %v", e.FoundTerminal)
	}
	return b.String()
}
