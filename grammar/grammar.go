package grammar

import (
	"fmt"
	"sort"
	"strings"

	mlspec "github.com/nihei9/maleeni/spec"
	verr "github.com/nihei9/ll1/error"
	"github.com/nihei9/ll1/grammar/symbol"
	spec "github.com/nihei9/ll1/spec/grammar"
)

// Production is a read-only view of a production.
type Production struct {
	ID  int
	LHS string
	RHS []string
}

func (p *Production) String() string {
	return fmt.Sprintf("%v: %v -> %v", p.ID, p.LHS, p.RHS)
}

type Grammar struct {
	name          string
	symbolTable   *symbol.SymbolTable
	productionSet *productionSet
	startSymbol   symbol.Symbol
	tokenClasses  map[string]string

	// lexSpec is nil when a definition has no lexical section.
	lexSpec      *mlspec.LexSpec
	skipLexKinds []mlspec.LexKindName
	kind2Term    map[mlspec.LexKindName]symbol.Symbol
	sym2Pattern  map[symbol.Symbol]string
}

func (g *Grammar) Name() string {
	return g.name
}

func (g *Grammar) StartSymbol() string {
	text, _ := g.symbolTable.Reader().ToText(g.startSymbol)
	return text
}

func (g *Grammar) EndMarker() string {
	return g.symbolTable.Reader().EOFText()
}

func (g *Grammar) EmptyMarker() string {
	return g.symbolTable.Reader().EmptyText()
}

// KindOf classifies a symbol text. It returns symbol.KindUnknown for a text the grammar doesn't use.
func (g *Grammar) KindOf(text string) symbol.Kind {
	return g.symbolTable.Reader().KindOf(text)
}

// Terminals returns the terminal texts in the order they were defined. The end marker isn't
// included.
func (g *Grammar) Terminals() []string {
	texts, err := g.symbolTable.Reader().TerminalTexts()
	if err != nil {
		return nil
	}
	return append([]string{}, texts[2:]...)
}

// NonTerminals returns the non-terminal texts in the order they were defined.
func (g *Grammar) NonTerminals() []string {
	texts, err := g.symbolTable.Reader().NonTerminalTexts()
	if err != nil {
		return nil
	}
	return append([]string{}, texts[1:]...)
}

// Production returns a production having an ID `id`.
func (g *Grammar) Production(id int) (*Production, bool) {
	prod, ok := g.productionSet.findByID(productionID(id))
	if !ok {
		return nil, false
	}
	return g.toProduction(prod), true
}

// ProductionsOf returns the productions whose LHS is `lhs` in ascending order of IDs.
func (g *Grammar) ProductionsOf(lhs string) []*Production {
	sym, ok := g.symbolTable.Reader().ToSymbol(lhs)
	if !ok {
		return nil
	}
	prods, _ := g.productionSet.findByLHS(sym)
	ps := make([]*Production, len(prods))
	for i, prod := range prods {
		ps[i] = g.toProduction(prod)
	}
	return ps
}

// Productions returns all productions in ascending order of IDs.
func (g *Grammar) Productions() []*Production {
	prods := g.productionSet.getAllProductions()
	ps := make([]*Production, len(prods))
	for i, prod := range prods {
		ps[i] = g.toProduction(prod)
	}
	return ps
}

// TokenClasses returns a map from token class codes to terminal texts.
func (g *Grammar) TokenClasses() map[string]string {
	m := make(map[string]string, len(g.tokenClasses))
	for k, v := range g.tokenClasses {
		m[k] = v
	}
	return m
}

func (g *Grammar) toProduction(prod *production) *Production {
	r := g.symbolTable.Reader()
	lhs, _ := r.ToText(prod.lhs)
	rhs := make([]string, len(prod.rhs))
	for i, sym := range prod.rhs {
		rhs[i], _ = r.ToText(sym)
	}
	return &Production{
		ID:  prod.id.Int(),
		LHS: lhs,
		RHS: rhs,
	}
}

type GrammarBuilder struct {
	Definition *spec.GrammarDefinition

	errs verr.SpecErrors

	// dupNames holds names declared as both a terminal and a non-terminal. Further errors about
	// them are suppressed.
	dupNames map[string]struct{}
}

// Build validates a definition and returns a grammar. When the definition has mistakes, Build
// returns all of them as verr.SpecErrors.
func (b *GrammarBuilder) Build() (*Grammar, error) {
	def := b.Definition
	if def == nil {
		return nil, fmt.Errorf("a grammar definition is nil")
	}
	b.dupNames = map[string]struct{}{}

	if def.Name == "" {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoGrammarName,
		})
	}

	symTab := b.genSymbolTable(def)
	startSym := b.checkStartSymbol(def, symTab)
	prods := b.genProductionSet(def, symTab)
	tokenClasses := b.checkTokenClasses(def, symTab)
	lexSpec, skipKinds, kind2Term, sym2Pat := b.genLexSpec(def, symTab)
	if len(b.errs) > 0 {
		b.errs.Sort()
		return nil, b.errs
	}

	return &Grammar{
		name:          def.Name,
		symbolTable:   symTab,
		productionSet: prods,
		startSymbol:   startSym,
		tokenClasses:  tokenClasses,
		lexSpec:       lexSpec,
		skipLexKinds:  skipKinds,
		kind2Term:     kind2Term,
		sym2Pattern:   sym2Pat,
	}, nil
}

func (b *GrammarBuilder) genSymbolTable(def *spec.GrammarDefinition) *symbol.SymbolTable {
	eofText := def.EndMarker
	if eofText == "" {
		eofText = symbol.DefaultEOFText
	}
	emptyText := def.EmptyMarker
	if emptyText == "" {
		emptyText = symbol.DefaultEmptyText
	}
	if eofText == emptyText {
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrSameMarkers,
			Detail: eofText,
		})
	}

	symTab := symbol.NewSymbolTable(eofText, emptyText)
	w := symTab.Writer()
	r := symTab.Reader()

	if len(def.Terminals) == 0 {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoTerminal,
		})
	}
	for _, t := range def.Terminals {
		if t.Text == eofText || t.Text == emptyText {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrReservedName,
				Detail: t.Text,
				Row:    t.Pos.Row,
				Col:    t.Pos.Col,
			})
			continue
		}
		if r.KindOf(t.Text) == symbol.KindTerminal {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateTerminal,
				Detail: t.Text,
				Row:    t.Pos.Row,
				Col:    t.Pos.Col,
			})
			continue
		}
		_, err := w.RegisterTerminalSymbol(t.Text)
		if err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  err,
				Detail: t.Text,
				Row:    t.Pos.Row,
				Col:    t.Pos.Col,
			})
		}
	}

	for _, nt := range def.NonTerminals {
		switch r.KindOf(nt.Text) {
		case symbol.KindUnknown:
		case symbol.KindNonTerminal:
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateNonTerminal,
				Detail: nt.Text,
				Row:    nt.Pos.Row,
				Col:    nt.Pos.Col,
			})
			continue
		case symbol.KindTerminal:
			b.dupNames[nt.Text] = struct{}{}
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateName,
				Detail: nt.Text,
				Row:    nt.Pos.Row,
				Col:    nt.Pos.Col,
			})
			continue
		default:
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrReservedName,
				Detail: nt.Text,
				Row:    nt.Pos.Row,
				Col:    nt.Pos.Col,
			})
			continue
		}
		_, err := w.RegisterNonTerminalSymbol(nt.Text)
		if err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  err,
				Detail: nt.Text,
				Row:    nt.Pos.Row,
				Col:    nt.Pos.Col,
			})
		}
	}

	return symTab
}

func (b *GrammarBuilder) checkStartSymbol(def *spec.GrammarDefinition, symTab *symbol.SymbolTable) symbol.Symbol {
	if def.Start.Text == "" {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoStartSymbol,
		})
		return symbol.SymbolNil
	}
	sym, ok := symTab.Reader().ToSymbol(def.Start.Text)
	if !ok || !sym.IsNonTerminal() {
		if _, dup := b.dupNames[def.Start.Text]; dup {
			return symbol.SymbolNil
		}
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrStartSymNotNonTerminal,
			Detail: def.Start.Text,
			Row:    def.Start.Pos.Row,
			Col:    def.Start.Pos.Col,
		})
		return symbol.SymbolNil
	}
	return sym
}

func (b *GrammarBuilder) genProductionSet(def *spec.GrammarDefinition, symTab *symbol.SymbolTable) *productionSet {
	prods := newProductionSet()
	if len(def.Productions) == 0 {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoProduction,
		})
	}

	r := symTab.Reader()
	// A non-terminal appearing as LHS already has a production even if it was dropped for another
	// error.
	lhsTexts := map[string]struct{}{}
	for _, p := range def.Productions {
		lhsTexts[p.LHS.Text] = struct{}{}

		if p.ID <= 0 {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrInvalidProductionID,
				Detail: fmt.Sprintf("%v", p.ID),
				Row:    p.Pos.Row,
				Col:    p.Pos.Col,
			})
			continue
		}

		lhs, ok := r.ToSymbol(p.LHS.Text)
		if !ok || !lhs.IsNonTerminal() {
			if _, dup := b.dupNames[p.LHS.Text]; dup {
				continue
			}
			cause := semErrLHSNotNonTerminal
			if !ok {
				cause = semErrUndefinedSym
			}
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  cause,
				Detail: p.LHS.Text,
				Row:    p.LHS.Pos.Row,
				Col:    p.LHS.Pos.Col,
			})
			continue
		}

		rhs := make([]symbol.Symbol, 0, len(p.RHS))
		rhsOK := true
		for _, s := range p.RHS {
			sym, ok := r.ToSymbol(s.Text)
			if !ok {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrUndefinedSym,
					Detail: s.Text,
					Row:    s.Pos.Row,
					Col:    s.Pos.Col,
				})
				rhsOK = false
				continue
			}
			if sym.IsEOF() {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrEndMarkerInRHS,
					Detail: s.Text,
					Row:    s.Pos.Row,
					Col:    s.Pos.Col,
				})
				rhsOK = false
				continue
			}
			rhs = append(rhs, sym)
		}
		if !rhsOK {
			continue
		}

		prod, err := newProduction(productionID(p.ID), lhs, rhs)
		if err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause: err,
				Row:   p.Pos.Row,
				Col:   p.Pos.Col,
			})
			continue
		}
		if !prods.append(prod) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateProductionID,
				Detail: fmt.Sprintf("%v", p.ID),
				Row:    p.Pos.Row,
				Col:    p.Pos.Col,
			})
		}
	}

	ntPos := map[string]spec.Position{}
	for _, nt := range def.NonTerminals {
		ntPos[nt.Text] = nt.Pos
	}
	for _, sym := range r.NonTerminalSymbols() {
		if _, ok := prods.findByLHS(sym); ok {
			continue
		}
		text, _ := r.ToText(sym)
		if _, ok := lhsTexts[text]; ok {
			continue
		}
		pos := ntPos[text]
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrNoProductionForNonTerm,
			Detail: text,
			Row:    pos.Row,
			Col:    pos.Col,
		})
	}

	return prods
}

func (b *GrammarBuilder) checkTokenClasses(def *spec.GrammarDefinition, symTab *symbol.SymbolTable) map[string]string {
	classes := map[string]string{}
	codes := make([]string, 0, len(def.TokenClasses))
	for code := range def.TokenClasses {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		term := def.TokenClasses[code]
		if symTab.Reader().KindOf(term) != symbol.KindTerminal {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrTokenClassNotTerminal,
				Detail: fmt.Sprintf("%v: %v", code, term),
			})
			continue
		}
		classes[code] = term
	}
	return classes
}

func (b *GrammarBuilder) genLexSpec(def *spec.GrammarDefinition, symTab *symbol.SymbolTable) (*mlspec.LexSpec, []mlspec.LexKindName, map[mlspec.LexKindName]symbol.Symbol, map[symbol.Symbol]string) {
	if def.Lexical == nil {
		return nil, nil, nil, nil
	}

	skip := map[string]struct{}{}
	for _, k := range def.Lexical.Skip {
		skip[k] = struct{}{}
	}

	r := symTab.Reader()
	var entries []*mlspec.LexEntry
	kind2Term := map[mlspec.LexKindName]symbol.Symbol{}
	sym2Pat := map[symbol.Symbol]string{}
	defined := map[string]struct{}{}
	for _, k := range def.Lexical.Kinds {
		if k.Kind == "" {
			b.errs = append(b.errs, &verr.SpecError{
				Cause: semErrNoLexKindName,
				Row:   k.Pos.Row,
				Col:   k.Pos.Col,
			})
			continue
		}
		if _, ok := defined[k.Kind]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateLexKind,
				Detail: k.Kind,
				Row:    k.Pos.Row,
				Col:    k.Pos.Col,
			})
			continue
		}
		defined[k.Kind] = struct{}{}

		_, skipped := skip[k.Kind]
		pat := k.Pattern
		if k.Terminal == "" {
			if !skipped {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrUnmappedLexKind,
					Detail: k.Kind,
					Row:    k.Pos.Row,
					Col:    k.Pos.Col,
				})
				continue
			}
		} else {
			if skipped {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrTermCannotBeSkipped,
					Detail: k.Kind,
					Row:    k.Pos.Row,
					Col:    k.Pos.Col,
				})
				continue
			}
			sym, ok := r.ToSymbol(k.Terminal)
			if !ok || sym.Kind() != symbol.KindTerminal {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrLexKindNotTerminal,
					Detail: fmt.Sprintf("%v: %v", k.Kind, k.Terminal),
					Row:    k.Pos.Row,
					Col:    k.Pos.Col,
				})
				continue
			}
			if pat == "" {
				pat = spec.EscapePattern(k.Terminal)
			}
			kind2Term[mlspec.LexKindName(k.Kind)] = sym
			sym2Pat[sym] = pat
		}
		if pat == "" {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrNoPattern,
				Detail: k.Kind,
				Row:    k.Pos.Row,
				Col:    k.Pos.Col,
			})
			continue
		}

		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(k.Kind),
			Pattern: mlspec.LexPattern(pat),
		})
	}

	var skipKinds []mlspec.LexKindName
	for _, k := range def.Lexical.Skip {
		if _, ok := defined[k]; !ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrUndefinedLexKind,
				Detail: k,
			})
			continue
		}
		skipKinds = append(skipKinds, mlspec.LexKindName(k))
	}

	return &mlspec.LexSpec{
		Name:    lexSpecName(def.Name),
		Entries: entries,
	}, skipKinds, kind2Term, sym2Pat
}

// lexSpecName converts a grammar name into a snake_case identifier a lexical specification accepts.
// Letters are lowercased and runs of other characters become single underscores. A name not
// starting with a letter is prefixed with "g".
func lexSpecName(name string) string {
	var b strings.Builder
	sep := false
	for _, c := range strings.ToLower(name) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(c)
			continue
		}
		sep = true
	}
	id := b.String()
	if id == "" || id[0] < 'a' || id[0] > 'z' {
		id = "g" + id
	}
	return id
}
