package parser

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/stacks/arraystack"
)

// Grammar is the view of a compiled grammar the parser runs on. Symbols are passed as numbers; terminal
// numbers and non-terminal numbers start at 1 and the terminal number of the end marker is EOF().
type Grammar interface {
	// StartSymbol returns the non-terminal number of the start symbol.
	StartSymbol() int

	// Production returns the ID of the production the parsing table holds for a pair of a non-terminal
	// and a terminal. When the table has no entry for the pair, it returns 0.
	Production(nonTerminal int, terminal int) int

	// ExpectedTerminals returns the terminals a non-terminal has table entries for.
	ExpectedTerminals(nonTerminal int) []int

	// LHS returns the non-terminal number of the LHS of a production.
	LHS(prod int) int

	// RHS returns the RHS of a production. Each element is a terminal number, a negated non-terminal
	// number, or 0 for the empty marker.
	RHS(prod int) []int

	// EOF returns the terminal number of the end marker.
	EOF() int

	// TerminalCount returns the number of terminals including the end marker and the unused number 0.
	TerminalCount() int

	// Terminal returns the text of a terminal.
	Terminal(terminal int) string

	// NonTerminal returns the text of a non-terminal.
	NonTerminal(nonTerminal int) string

	// EmptyMarker returns the text of the empty marker.
	EmptyMarker() string
}

// VToken is a token the parser consumes.
type VToken interface {
	// TerminalID returns the terminal number of a token. An invalid token has the terminal number 0.
	TerminalID() int

	// Lexeme returns the text of a token.
	Lexeme() []byte

	// EOF returns true when a token is the end marker.
	EOF() bool

	// Invalid returns true when a token source couldn't classify a token.
	Invalid() bool

	// Position returns the 1-based row and column of a token. A token source that doesn't know them
	// returns 0.
	Position() (int, int)
}

// TokenStream produces tokens. It must produce exactly one end-marker token at the end of an input.
type TokenStream interface {
	Next() (VToken, error)
}

type ParserOption func(p *Parser) error

// SemanticAction registers a set of semantic actions the parser calls on each transition.
func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		if semAct == nil {
			return fmt.Errorf("semantic actions must be non-nil")
		}
		p.semAct = semAct
		return nil
	}
}

// stackEntry is an element of the parse stack. sym is encoded the same way as Grammar.RHS. The bottom
// entry is the end marker and it has no node.
type stackEntry struct {
	sym  int
	node int
}

// Parser is a predictive parser. A parser parses one input; create a new one for each input.
type Parser struct {
	toks   TokenStream
	gram   Grammar
	stack  *arraystack.Stack
	semAct SemanticActionSet
	tree   *Tree
	trace  []int
	pos    int
	done   bool
}

func NewParser(toks TokenStream, gram Grammar, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		toks:  toks,
		gram:  gram,
		stack: arraystack.New(),
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse runs the parser. When the input contains a syntax error, Parse stops at the first error and
// returns *SyntaxError.
func (p *Parser) Parse() error {
	if p.done {
		return fmt.Errorf("a parser cannot parse an input twice")
	}
	p.done = true

	tree := newTree()
	start := p.gram.StartSymbol()
	root := tree.add(p.gram.NonTerminal(start), NodeKindNonTerminal, 0)
	p.push(p.gram.EOF(), 0)
	p.push(-start, root)

	tok, err := p.nextToken()
	if err != nil {
		return err
	}

	for {
		top := p.top()
		switch {
		case top.sym == 0:
			tracer().Debugf("pop %v (node %v)", p.gram.EmptyMarker(), top.node)
			p.actOnPopEmpty(tok)
			p.pop()
		case top.sym > 0:
			term := p.lookahead(tok)
			if term != top.sym {
				return p.syntaxError(tok, p.gram.Terminal(top.sym), []int{top.sym})
			}

			p.actOnMatch(tok)
			p.pop()
			if top.node == 0 {
				tracer().Infof("accepted %v tokens", p.pos)
				p.actOnAccept(tok)
				p.tree = tree
				return nil
			}

			n := tree.Node(top.node)
			n.Label = string(tok.Lexeme())
			n.Row, n.Col = tok.Position()
			tracer().Debugf("match %v %#v (node %v)", n.Symbol, n.Label, n.Index)

			tok, err = p.nextToken()
			if err != nil {
				return err
			}
		default:
			nonTerm := top.sym * -1
			prod := 0
			if term := p.lookahead(tok); term > 0 {
				prod = p.gram.Production(nonTerm, term)
			}
			if prod == 0 {
				return p.syntaxError(tok, p.gram.NonTerminal(nonTerm), p.gram.ExpectedTerminals(nonTerm))
			}

			tracer().Debugf("expand %v by production %v (node %v)", p.gram.NonTerminal(nonTerm), prod, top.node)
			p.actOnExpand(tok, prod)
			p.pop()
			p.trace = append(p.trace, prod)
			p.expand(tree, top.node, p.gram.RHS(prod))
		}
	}
}

// expand creates the children of a node and pushes them onto the stack so that the leftmost child is
// on top.
func (p *Parser) expand(tree *Tree, parent int, rhs []int) {
	children := make([]int, len(rhs))
	for i, sym := range rhs {
		var n int
		switch {
		case sym == 0:
			n = tree.add(p.gram.EmptyMarker(), NodeKindEmpty, parent)
		case sym > 0:
			n = tree.add(p.gram.Terminal(sym), NodeKindTerminal, parent)
		default:
			n = tree.add(p.gram.NonTerminal(sym*-1), NodeKindNonTerminal, parent)
		}
		if i > 0 {
			tree.Node(children[i-1]).Sibling = n
		}
		children[i] = n
	}
	for i := len(rhs) - 1; i >= 0; i-- {
		p.push(rhs[i], children[i])
	}
}

// Tree returns the derivation tree of an accepted input. When the parser hasn't accepted an input, it
// returns nil.
func (p *Parser) Tree() *Tree {
	return p.tree
}

// Trace returns the IDs of the productions the parser applied in order, that is, a leftmost
// derivation. After a syntax error, the trace ends at the last production applied.
func (p *Parser) Trace() []int {
	return p.trace
}

func (p *Parser) nextToken() (VToken, error) {
	tok, err := p.toks.Next()
	if err != nil {
		return nil, err
	}
	p.pos++
	return tok, nil
}

func (p *Parser) lookahead(tok VToken) int {
	if tok.EOF() {
		return p.gram.EOF()
	}
	if tok.Invalid() {
		return 0
	}
	return tok.TerminalID()
}

func (p *Parser) syntaxError(tok VToken, expected string, expectedTerms []int) error {
	terms := treeset.NewWithStringComparator()
	for _, t := range expectedTerms {
		terms.Add(p.gram.Terminal(t))
	}
	var texts []string
	for _, t := range terms.Values() {
		texts = append(texts, t.(string))
	}

	row, col := tok.Position()
	synErr := &SyntaxError{
		Position:          p.pos,
		Row:               row,
		Col:               col,
		Expected:          expected,
		ExpectedTerminals: texts,
		FoundLexeme:       string(tok.Lexeme()),
		Message:           "unexpected token",
	}
	switch {
	case tok.EOF():
		synErr.FoundTerminal = p.gram.Terminal(p.gram.EOF())
		if synErr.FoundLexeme == "" {
			synErr.FoundLexeme = synErr.FoundTerminal
		}
	case tok.Invalid() || tok.TerminalID() <= 0 || tok.TerminalID() >= p.gram.TerminalCount():
		synErr.Message = "invalid token"
	default:
		synErr.FoundTerminal = p.gram.Terminal(tok.TerminalID())
	}

	tracer().Errorf("%v", synErr)
	p.actOnError(tok, synErr)

	return synErr
}

func (p *Parser) push(sym int, node int) {
	p.stack.Push(&stackEntry{
		sym:  sym,
		node: node,
	})
}

func (p *Parser) pop() {
	p.stack.Pop()
}

func (p *Parser) top() *stackEntry {
	v, ok := p.stack.Peek()
	if !ok {
		// The bottom entry is the end marker and popping it finishes parsing.
		panic("the parse stack is empty")
	}
	return v.(*stackEntry)
}

// stackTexts returns the symbols on the stack from the bottom to the top.
func (p *Parser) stackTexts() []string {
	vs := p.stack.Values()
	texts := make([]string, len(vs))
	for i, v := range vs {
		texts[len(vs)-1-i] = symbolText(p.gram, v.(*stackEntry).sym)
	}
	return texts
}

func (p *Parser) step(tok VToken) *Step {
	return &Step{
		Stack:     p.stackTexts(),
		Position:  p.pos,
		Lookahead: tok,
	}
}

func (p *Parser) actOnExpand(tok VToken, prod int) {
	if p.semAct == nil {
		return
	}
	p.semAct.Expand(p.step(tok), prod)
}

func (p *Parser) actOnMatch(tok VToken) {
	if p.semAct == nil {
		return
	}
	p.semAct.Match(p.step(tok))
}

func (p *Parser) actOnPopEmpty(tok VToken) {
	if p.semAct == nil {
		return
	}
	p.semAct.PopEmpty(p.step(tok))
}

func (p *Parser) actOnAccept(tok VToken) {
	if p.semAct == nil {
		return
	}
	p.semAct.Accept(p.step(tok))
}

func (p *Parser) actOnError(tok VToken, synErr *SyntaxError) {
	if p.semAct == nil {
		return
	}
	p.semAct.MissError(p.step(tok), synErr)
}

func symbolText(gram Grammar, sym int) string {
	switch {
	case sym == 0:
		return gram.EmptyMarker()
	case sym > 0:
		return gram.Terminal(sym)
	default:
		return gram.NonTerminal(sym * -1)
	}
}
