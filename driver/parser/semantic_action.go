package parser

// Step is a snapshot of the parser taken when it runs an action.
type Step struct {
	// Stack lists the symbols on the parse stack from the bottom to the top.
	Stack []string

	// Position is the 1-based position of Lookahead in the token stream.
	Position  int
	Lookahead VToken
}

// SemanticActionSet is a set of semantic actions a parser calls. The parser takes a snapshot before it
// changes the stack.
type SemanticActionSet interface {
	// Expand runs when the parser replaces a non-terminal on top of the stack with the RHS of
	// production `prod`.
	Expand(step *Step, prod int)

	// Match runs when a terminal on top of the stack matches the lookahead. The end marker matches
	// too, right before Accept.
	Match(step *Step)

	// PopEmpty runs when the parser pops the empty marker.
	PopEmpty(step *Step)

	// Accept runs when the parser accepts an input.
	Accept(step *Step)

	// MissError runs when the parser detects a syntax error. The parser doesn't recover from errors.
	MissError(step *Step, err *SyntaxError)
}
