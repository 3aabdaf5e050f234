package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrammarDefinition(t *testing.T) {
	src := `name: test
start: s
end_marker: "#"
terminals: [a, "+"]
non_terminals: [s]
productions:
  - {id: 1, lhs: s, rhs: [a, "+", s]}
  - {id: 2, lhs: s, rhs: []}
token_classes:
  I: a
lexical:
  skip: [ws]
  kinds:
    - {kind: ws, pattern: " +"}
    - {kind: a, terminal: a}
`
	def, err := ParseGrammarDefinition(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "test", def.Name)
	assert.Equal(t, "s", def.Start.Text)
	assert.Equal(t, Position{Row: 2, Col: 8}, def.Start.Pos)
	assert.Equal(t, "#", def.EndMarker)
	assert.Equal(t, "", def.EmptyMarker)
	require.Len(t, def.Terminals, 2)
	assert.Equal(t, "+", def.Terminals[1].Text)

	require.Len(t, def.Productions, 2)
	p := def.Productions[0]
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "s", p.LHS.Text)
	require.Len(t, p.RHS, 3)
	assert.Equal(t, Position{Row: 7, Col: 35}, p.RHS[2].Pos)
	assert.Equal(t, 7, p.Pos.Row)
	assert.Empty(t, def.Productions[1].RHS)

	assert.Equal(t, map[string]string{"I": "a"}, def.TokenClasses)
	require.NotNil(t, def.Lexical)
	assert.Equal(t, []string{"ws"}, def.Lexical.Skip)
	require.Len(t, def.Lexical.Kinds, 2)
	assert.Equal(t, "a", def.Lexical.Kinds[1].Terminal)
	assert.Equal(t, 15, def.Lexical.Kinds[1].Pos.Row)
}

func TestParseGrammarDefinition_Error(t *testing.T) {
	srcs := map[string]string{
		"empty":                "",
		"unknown field":        "name: test\nfoo: bar\n",
		"non-scalar symbol":    "name: test\nstart: [s]\n",
		"non-scalar RHS":       "productions:\n  - {id: 1, lhs: s, rhs: [[a]]}\n",
		"invalid ID":           "productions:\n  - {id: one, lhs: s, rhs: [a]}\n",
		"malformed definition": "name: [\n",
	}
	for caption, src := range srcs {
		t.Run(caption, func(t *testing.T) {
			_, err := ParseGrammarDefinition(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestEscapePattern(t *testing.T) {
	assert.Equal(t, `\+`, EscapePattern(`+`))
	assert.Equal(t, `\(\*\)`, EscapePattern(`(*)`))
	assert.Equal(t, `a\.b\\`, EscapePattern(`a.b\`))
	assert.Equal(t, `:=`, EscapePattern(`:=`))
}
