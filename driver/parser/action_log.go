package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

var _ SemanticActionSet = &ActionLog{}

type actionRow struct {
	stack  []string
	pos    int
	action string
}

// ActionLog is a SemanticActionSet that records each action along with the stack and the remaining
// input.
type ActionLog struct {
	gram Grammar
	rows []*actionRow

	// lexemes holds the tokens seen so far by position.
	lexemes []string
}

func NewActionLog(gram Grammar) *ActionLog {
	return &ActionLog{
		gram:    gram,
		lexemes: []string{""},
	}
}

func (l *ActionLog) Expand(step *Step, prod int) {
	lhs := l.gram.NonTerminal(l.gram.LHS(prod))
	var rhs []string
	for _, sym := range l.gram.RHS(prod) {
		rhs = append(rhs, symbolText(l.gram, sym))
	}
	l.log(step, fmt.Sprintf("Output Rule %v (%v->%v)", prod, lhs, strings.Join(rhs, " ")))
}

func (l *ActionLog) Match(step *Step) {
	l.log(step, fmt.Sprintf("Match '%v'", l.lexeme(step.Lookahead)))
}

func (l *ActionLog) PopEmpty(step *Step) {
	l.log(step, fmt.Sprintf("Pop '%v'", l.gram.EmptyMarker()))
}

func (l *ActionLog) Accept(step *Step) {
	l.log(step, "Accept")
}

func (l *ActionLog) MissError(step *Step, err *SyntaxError) {
	l.log(step, fmt.Sprintf("Error: %v", err.Message))
}

func (l *ActionLog) log(step *Step, action string) {
	for len(l.lexemes) <= step.Position {
		l.lexemes = append(l.lexemes, "")
	}
	l.lexemes[step.Position] = l.lexeme(step.Lookahead)
	l.rows = append(l.rows, &actionRow{
		stack:  step.Stack,
		pos:    step.Position,
		action: action,
	})
}

func (l *ActionLog) lexeme(tok VToken) string {
	if tok.EOF() {
		return l.gram.Terminal(l.gram.EOF())
	}
	return string(tok.Lexeme())
}

// Actions returns the recorded actions in order.
func (l *ActionLog) Actions() []string {
	as := make([]string, len(l.rows))
	for i, r := range l.rows {
		as[i] = r.action
	}
	return as
}

// Render writes the log as a table of the stack, the remaining input, and the action. The input column
// shows the tokens the parser has read; it doesn't read ahead of the lookahead.
func (l *ActionLog) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"STACK", "INPUT", "ACTION"})
	for _, r := range l.rows {
		t.AppendRow(table.Row{
			strings.Join(r.stack, " "),
			strings.Join(l.lexemes[r.pos:], " "),
			r.action,
		})
	}
	t.Render()
}
