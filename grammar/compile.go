package grammar

import (
	"errors"
	"fmt"
	"io"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/nihei9/ll1/compressor"
	"github.com/nihei9/ll1/grammar/symbol"
	spec "github.com/nihei9/ll1/spec/grammar"
)

type compileConfig struct {
	isReportingEnabled bool
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

// Compile analyzes a grammar and converts it into the portable form. When the grammar isn't LL(1),
// Compile returns a *ConflictError, together with a report if reporting is enabled.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	analysis, err := Analyze(gram)
	if err != nil {
		return nil, nil, err
	}

	var report *spec.Report
	if config.isReportingEnabled {
		report = genReport(analysis)
	}

	tab, err := analysis.Table()
	if err != nil {
		return nil, report, err
	}

	lexical, err := compileLexSpec(gram)
	if err != nil {
		return nil, nil, err
	}

	r := gram.symbolTable.Reader()
	terms, err := r.TerminalTexts()
	if err != nil {
		return nil, nil, err
	}
	nonTerms, err := r.NonTerminalTexts()
	if err != nil {
		return nil, nil, err
	}

	lhsSyms := make([]int, gram.productionSet.maxID().Int()+1)
	rhsSyms := make([][]int, gram.productionSet.maxID().Int()+1)
	for _, p := range gram.productionSet.getAllProductions() {
		lhsSyms[p.id] = p.lhs.Num().Int()
		rhs := make([]int, p.rhsLen)
		for i, sym := range p.rhs {
			rhs[i] = encodeRHSSymbol(sym)
		}
		rhsSyms[p.id] = rhs
	}

	orig, err := compressor.NewOriginalTable(tab.flatten(), tab.terminalCount)
	if err != nil {
		return nil, nil, err
	}
	comp := compressor.NewRowDisplacementTable(productionIDNil.Int())
	err = comp.Compress(orig)
	if err != nil {
		return nil, nil, err
	}

	var tokenClasses map[string]string
	if len(gram.tokenClasses) > 0 {
		tokenClasses = gram.TokenClasses()
	}

	return &spec.CompiledGrammar{
		Name:    gram.name,
		Lexical: lexical,
		Syntactic: &spec.SyntacticSpec{
			Class:            spec.ParserClassLL1,
			Terminals:        terms,
			TerminalCount:    len(terms),
			NonTerminals:     nonTerms,
			NonTerminalCount: len(nonTerms),
			StartSymbol:      gram.startSymbol.Num().Int(),
			EOFSymbol:        symbol.SymbolEOF.Num().Int(),
			EmptyMarker:      r.EmptyText(),
			LHSSymbols:       lhsSyms,
			RHSSymbols:       rhsSyms,
			Table: &spec.RowDisplacementTable{
				OriginalRowCount: comp.OriginalRowCount,
				OriginalColCount: comp.OriginalColCount,
				EmptyValue:       comp.EmptyValue,
				Entries:          comp.Entries,
				Bounds:           comp.Bounds,
				RowDisplacement:  comp.RowDisplacement,
			},
		},
		TokenClasses: tokenClasses,
	}, report, nil
}

func encodeRHSSymbol(sym symbol.Symbol) int {
	switch {
	case sym.IsEmpty():
		return 0
	case sym.IsNonTerminal():
		return -sym.Num().Int()
	default:
		return sym.Num().Int()
	}
}

func compileLexSpec(gram *Grammar) (*spec.LexicalSpec, error) {
	if gram.lexSpec == nil {
		return nil, nil
	}

	lexSpec, err, cErrs := mlcompiler.Compile(gram.lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, errors.New(b.String())
		}
		return nil, fmt.Errorf("failed to compile a lexical specification: %w", err)
	}

	kind2Term := make([]int, len(lexSpec.KindNames))
	skip := make([]int, len(lexSpec.KindNames))
	for i, k := range lexSpec.KindNames {
		if k == mlspec.LexKindNameNil {
			kind2Term[mlspec.LexKindIDNil] = symbol.SymbolNil.Num().Int()
			continue
		}

		for _, sk := range gram.skipLexKinds {
			if k != sk {
				continue
			}
			skip[i] = 1
			break
		}
		if skip[i] == 1 {
			continue
		}

		sym, ok := gram.kind2Term[k]
		if !ok {
			return nil, fmt.Errorf("lexical kind '%v' is mapped to no terminal", k)
		}
		kind2Term[i] = sym.Num().Int()
	}

	return &spec.LexicalSpec{
		Lexer: spec.LexerMaleeni,
		Maleeni: &spec.Maleeni{
			Spec:           lexSpec,
			KindToTerminal: kind2Term,
			Skip:           skip,
		},
	}, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}
