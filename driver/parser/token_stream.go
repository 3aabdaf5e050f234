package parser

import (
	"fmt"
	"io"

	spec "github.com/nihei9/ll1/spec/grammar"
	mldriver "github.com/nihei9/maleeni/driver"
)

type vToken struct {
	terminalID int
	lexeme     []byte
	eof        bool
	invalid    bool
	row        int
	col        int
}

func (t *vToken) TerminalID() int {
	return t.terminalID
}

func (t *vToken) Lexeme() []byte {
	return t.lexeme
}

func (t *vToken) EOF() bool {
	return t.eof
}

func (t *vToken) Invalid() bool {
	return t.invalid
}

func (t *vToken) Position() (int, int) {
	return t.row, t.col
}

type tokenStream struct {
	lex            *mldriver.Lexer
	kindToTerminal []int
	skip           []int
}

// NewTokenStream returns a token stream that splits a source text into tokens using the lexical
// specification embedded in a compiled grammar.
func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	if g.Lexical == nil || g.Lexical.Maleeni == nil {
		return nil, fmt.Errorf("grammar '%v' has no lexical specification", g.Name)
	}

	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(g.Lexical.Maleeni.Spec), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex:            lex,
		kindToTerminal: g.Lexical.Maleeni.KindToTerminal,
		skip:           g.Lexical.Maleeni.Skip,
	}, nil
}

func (s *tokenStream) Next() (VToken, error) {
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return nil, err
		}

		if !tok.EOF && !tok.Invalid && s.skip[tok.KindID] > 0 {
			continue
		}

		// The kind ID of an invalid token is 0, and it is mapped to the terminal number 0.
		return &vToken{
			terminalID: s.kindToTerminal[tok.KindID],
			lexeme:     tok.Lexeme,
			eof:        tok.EOF,
			invalid:    tok.Invalid,
			row:        tok.Row + 1,
			col:        tok.Col + 1,
		}, nil
	}
}

// Token is a token classified by something other than the lexical specification, such as a PIF file.
// Class is the text of a terminal.
type Token struct {
	Class  string
	Lexeme string
	Row    int
	Col    int
}

type sliceTokenStream struct {
	toks []*vToken
	next int
}

// NewTokenStreamFromTokens returns a token stream producing already classified tokens followed by
// the end marker. A token whose class isn't a terminal becomes an invalid token.
func NewTokenStreamFromTokens(g *spec.CompiledGrammar, toks []*Token) (TokenStream, error) {
	gram := NewGrammar(g)
	eof := gram.Terminal(gram.EOF())
	vToks := make([]*vToken, 0, len(toks)+1)
	for i, tok := range toks {
		if tok.Class == eof {
			return nil, fmt.Errorf("token #%v: the end marker '%v' is appended automatically", i+1, eof)
		}
		term := gram.terminalNum(tok.Class)
		vToks = append(vToks, &vToken{
			terminalID: term,
			lexeme:     []byte(tok.Lexeme),
			invalid:    term == 0,
			row:        tok.Row,
			col:        tok.Col,
		})
	}
	vToks = append(vToks, &vToken{
		terminalID: gram.EOF(),
		lexeme:     []byte(eof),
		eof:        true,
	})

	return &sliceTokenStream{
		toks: vToks,
	}, nil
}

func (s *sliceTokenStream) Next() (VToken, error) {
	if s.next >= len(s.toks) {
		return nil, io.ErrUnexpectedEOF
	}
	tok := s.toks[s.next]
	s.next++
	return tok, nil
}
