package symbol

import (
	"fmt"
	"sort"
)

// Kind is a classification of a grammar symbol.
type Kind string

const (
	KindNonTerminal = Kind("non-terminal")
	KindTerminal    = Kind("terminal")
	KindEmpty       = Kind("empty-marker")
	KindEOF         = Kind("end-marker")
	KindUnknown     = Kind("unknown")
)

func (k Kind) String() string {
	return string(k)
}

type SymbolNum uint16

func (n SymbolNum) Int() int {
	return int(n)
}

// Symbol is a grammar symbol. The two most significant bits hold the kind and the rest holds
// a number unique within the kind. Two symbols are the same symbol iff their values are equal.
type Symbol uint16

func (s Symbol) String() string {
	var prefix string
	switch s.Kind() {
	case KindNonTerminal:
		prefix = "n"
	case KindTerminal:
		prefix = "t"
	case KindEmpty:
		prefix = "ε"
	case KindEOF:
		prefix = "e"
	default:
		prefix = "?"
	}
	return fmt.Sprintf("%v%v", prefix, s.Num())
}

const (
	maskKindPart    = uint16(0xc000) // 1100 0000 0000 0000
	maskNonTerminal = uint16(0x0000) // 0000 0000 0000 0000
	maskTerminal    = uint16(0x4000) // 0100 0000 0000 0000
	maskEmpty       = uint16(0x8000) // 1000 0000 0000 0000
	maskEOF         = uint16(0xc000) // 1100 0000 0000 0000

	maskNumberPart = uint16(0x3fff) // 0011 1111 1111 1111

	SymbolNil   = Symbol(0)                  // 0000 0000 0000 0000
	SymbolEmpty = Symbol(maskEmpty | 0x0001) // 1000 0000 0000 0001
	SymbolEOF   = Symbol(maskEOF | 0x0001)   // 1100 0000 0000 0001

	DefaultEOFText   = "$"
	DefaultEmptyText = "ε"

	// Terminal number 1 is shared with the EOF symbol so that the EOF symbol gets its own column
	// in a parsing table.
	nonTerminalNumMin = SymbolNum(1)
	terminalNumMin    = SymbolNum(2)
	symbolNumMax      = SymbolNum(maskNumberPart)
)

func newSymbol(kind Kind, num SymbolNum) (Symbol, error) {
	if num > symbolNumMax {
		return SymbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", symbolNumMax, num)
	}

	var kindMask uint16
	switch kind {
	case KindNonTerminal:
		kindMask = maskNonTerminal
	case KindTerminal:
		kindMask = maskTerminal
	default:
		return SymbolNil, fmt.Errorf("only terminal and non-terminal symbols can be numbered; kind: %v", kind)
	}
	return Symbol(kindMask | uint16(num)), nil
}

// Num returns a number of the symbol. The number is unique among symbols of the same kind, and the EOF
// symbol shares the numbering of terminal symbols.
func (s Symbol) Num() SymbolNum {
	return SymbolNum(uint16(s) & maskNumberPart)
}

func (s Symbol) Kind() Kind {
	if s.IsNil() {
		return KindUnknown
	}
	switch uint16(s) & maskKindPart {
	case maskNonTerminal:
		return KindNonTerminal
	case maskTerminal:
		return KindTerminal
	case maskEmpty:
		return KindEmpty
	default:
		return KindEOF
	}
}

func (s Symbol) Byte() []byte {
	if s.IsNil() {
		return []byte{0, 0}
	}
	return []byte{byte(uint16(s) >> 8), byte(uint16(s) & 0x00ff)}
}

func (s Symbol) IsNil() bool {
	return s.Num() == 0
}

func (s Symbol) IsNonTerminal() bool {
	return !s.IsNil() && uint16(s)&maskKindPart == maskNonTerminal
}

// IsTerminal reports whether the symbol can be matched against a token. The EOF symbol is treated as
// a terminal symbol.
func (s Symbol) IsTerminal() bool {
	if s.IsNil() {
		return false
	}
	k := uint16(s) & maskKindPart
	return k == maskTerminal || k == maskEOF
}

func (s Symbol) IsEOF() bool {
	return s == SymbolEOF
}

func (s Symbol) IsEmpty() bool {
	return s == SymbolEmpty
}

type SymbolTable struct {
	text2Sym     map[string]Symbol
	sym2Text     map[Symbol]string
	nonTermTexts []string
	termTexts    []string
	nonTermNum   SymbolNum
	termNum      SymbolNum
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

// NewSymbolTable returns a symbol table knowing only the end marker and the empty marker. Empty texts
// select the default markers.
func NewSymbolTable(eofText, emptyText string) *SymbolTable {
	if eofText == "" {
		eofText = DefaultEOFText
	}
	if emptyText == "" {
		emptyText = DefaultEmptyText
	}
	return &SymbolTable{
		text2Sym: map[string]Symbol{
			eofText:   SymbolEOF,
			emptyText: SymbolEmpty,
		},
		sym2Text: map[Symbol]string{
			SymbolEOF:   eofText,
			SymbolEmpty: emptyText,
		},
		termTexts: []string{
			"",      // Nil
			eofText, // EOF
		},
		nonTermTexts: []string{
			"", // Nil
		},
		nonTermNum: nonTerminalNumMin,
		termNum:    terminalNumMin,
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

func (w *SymbolTableWriter) RegisterNonTerminalSymbol(text string) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		if !sym.IsNonTerminal() {
			return SymbolNil, fmt.Errorf("'%v' is already registered as a %v", text, sym.Kind())
		}
		return sym, nil
	}
	sym, err := newSymbol(KindNonTerminal, w.nonTermNum)
	if err != nil {
		return SymbolNil, err
	}
	w.nonTermNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	w.nonTermTexts = append(w.nonTermTexts, text)
	return sym, nil
}

func (w *SymbolTableWriter) RegisterTerminalSymbol(text string) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		if sym.Kind() != KindTerminal {
			return SymbolNil, fmt.Errorf("'%v' is already registered as a %v", text, sym.Kind())
		}
		return sym, nil
	}
	sym, err := newSymbol(KindTerminal, w.termNum)
	if err != nil {
		return SymbolNil, err
	}
	w.termNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	w.termTexts = append(w.termTexts, text)
	return sym, nil
}

func (r *SymbolTableReader) ToSymbol(text string) (Symbol, bool) {
	if sym, ok := r.text2Sym[text]; ok {
		return sym, true
	}
	return SymbolNil, false
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	text, ok := r.sym2Text[sym]
	return text, ok
}

// KindOf returns the kind of a symbol named `text`, or KindUnknown when the table doesn't know it.
func (r *SymbolTableReader) KindOf(text string) Kind {
	sym, ok := r.text2Sym[text]
	if !ok {
		return KindUnknown
	}
	return sym.Kind()
}

func (r *SymbolTableReader) EOFText() string {
	return r.sym2Text[SymbolEOF]
}

func (r *SymbolTableReader) EmptyText() string {
	return r.sym2Text[SymbolEmpty]
}

// TerminalSymbols returns the EOF symbol and all terminal symbols in ascending order of their numbers.
func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.termNum.Int()-1)
	for sym := range r.sym2Text {
		if !sym.IsTerminal() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i].Num() < syms[j].Num()
	})
	return syms
}

// TerminalTexts returns the texts of the terminal symbols indexed by their numbers. The index 0 is
// reserved for the nil symbol and the index 1 for the EOF symbol.
func (r *SymbolTableReader) TerminalTexts() ([]string, error) {
	if r.termNum == terminalNumMin {
		return nil, fmt.Errorf("symbol table has no terminals")
	}
	return r.termTexts, nil
}

func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.nonTermNum.Int()-nonTerminalNumMin.Int())
	for sym := range r.sym2Text {
		if !sym.IsNonTerminal() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

// NonTerminalTexts returns the texts of the non-terminal symbols indexed by their numbers. The index 0
// is reserved for the nil symbol.
func (r *SymbolTableReader) NonTerminalTexts() ([]string, error) {
	if r.nonTermNum == nonTerminalNumMin {
		return nil, fmt.Errorf("symbol table has no non-terminals")
	}
	return r.nonTermTexts, nil
}
