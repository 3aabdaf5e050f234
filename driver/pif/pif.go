// Package pif reads program internal form (PIF) files. A PIF file lists the tokens of a program one per
// line in the form `<class code> <line> <symbol table ID> <token>`.
package pif

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nihei9/ll1/driver/parser"
	spec "github.com/nihei9/ll1/spec/grammar"
)

// Read reads tokens from a PIF file. The class code of a token is mapped to a terminal through
// tokenClasses; a token whose code has no mapping is classified as the terminal of its own text.
// Lines with fewer than four fields are ignored.
func Read(r io.Reader, tokenClasses map[string]string) ([]*parser.Token, error) {
	var toks []*parser.Token
	s := bufio.NewScanner(r)
	lineNum := 0
	for s.Scan() {
		lineNum++
		fields := strings.SplitN(strings.TrimSpace(s.Text()), " ", 4)
		if len(fields) < 4 {
			continue
		}

		code, line, text := fields[0], fields[1], fields[3]
		row, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("line %v: invalid line number: %v", lineNum, line)
		}

		class, ok := tokenClasses[code]
		if !ok {
			class = text
		}
		toks = append(toks, &parser.Token{
			Class:  class,
			Lexeme: text,
			Row:    row,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return toks, nil
}

// NewTokenStream returns a token stream over a PIF file using the token classes of a compiled grammar.
func NewTokenStream(g *spec.CompiledGrammar, r io.Reader) (parser.TokenStream, error) {
	toks, err := Read(r, g.TokenClasses)
	if err != nil {
		return nil, err
	}
	return parser.NewTokenStreamFromTokens(g, toks)
}
