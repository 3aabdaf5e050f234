package grammar

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type Position struct {
	Row int
	Col int
}

func newPosition(n *yaml.Node) Position {
	return Position{
		Row: n.Line,
		Col: n.Column,
	}
}

// SymbolName is a symbol text appearing in a grammar definition together with its position.
type SymbolName struct {
	Text string
	Pos  Position
}

func (s *SymbolName) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %v: a symbol must be a scalar value", n.Line)
	}
	s.Text = n.Value
	s.Pos = newPosition(n)
	return nil
}

type ProductionDefinition struct {
	ID  int          `yaml:"id"`
	LHS SymbolName   `yaml:"lhs"`
	RHS []SymbolName `yaml:"rhs"`
	Pos Position     `yaml:"-"`
}

func (p *ProductionDefinition) UnmarshalYAML(n *yaml.Node) error {
	type plain ProductionDefinition
	var v plain
	if err := n.Decode(&v); err != nil {
		return err
	}
	*p = ProductionDefinition(v)
	p.Pos = newPosition(n)
	return nil
}

// LexKindDefinition is an entry of a lexical specification. A kind having no terminal produces
// tokens that the parser never sees, so such a kind must be listed in `skip`.
type LexKindDefinition struct {
	Kind     string   `yaml:"kind"`
	Terminal string   `yaml:"terminal"`
	Pattern  string   `yaml:"pattern"`
	Pos      Position `yaml:"-"`
}

func (k *LexKindDefinition) UnmarshalYAML(n *yaml.Node) error {
	type plain LexKindDefinition
	var v plain
	if err := n.Decode(&v); err != nil {
		return err
	}
	*k = LexKindDefinition(v)
	k.Pos = newPosition(n)
	return nil
}

type LexicalDefinition struct {
	Skip  []string             `yaml:"skip"`
	Kinds []*LexKindDefinition `yaml:"kinds"`
}

// GrammarDefinition is a grammar written by a user. It is validated by grammar.GrammarBuilder.
type GrammarDefinition struct {
	Name         string                  `yaml:"name"`
	Start        SymbolName              `yaml:"start"`
	EndMarker    string                  `yaml:"end_marker"`
	EmptyMarker  string                  `yaml:"empty_marker"`
	Terminals    []SymbolName            `yaml:"terminals"`
	NonTerminals []SymbolName            `yaml:"non_terminals"`
	Productions  []*ProductionDefinition `yaml:"productions"`
	TokenClasses map[string]string       `yaml:"token_classes"`
	Lexical      *LexicalDefinition      `yaml:"lexical"`
}

func ParseGrammarDefinition(src io.Reader) (*GrammarDefinition, error) {
	d := yaml.NewDecoder(src)
	d.KnownFields(true)

	def := &GrammarDefinition{}
	err := d.Decode(def)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("a grammar definition is empty")
		}
		return nil, fmt.Errorf("failed to decode a grammar definition: %w", err)
	}
	return def, nil
}
