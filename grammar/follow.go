package grammar

import (
	"fmt"

	"github.com/nihei9/ll1/grammar/symbol"
)

// followEntry never contains the empty marker. The end marker is kept apart from the terminal
// symbols as the eof flag.
type followEntry struct {
	symbols map[symbol.Symbol]struct{}
	eof     bool
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: map[symbol.Symbol]struct{}{},
		eof:     false,
	}
}

func (e *followEntry) add(sym symbol.Symbol) bool {
	if sym.IsEOF() {
		return e.addEOF()
	}
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *followEntry) addEOF() bool {
	if !e.eof {
		e.eof = true
		return true
	}
	return false
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false

	if fst != nil {
		for sym := range fst.symbols {
			added := e.add(sym)
			if added {
				changed = true
			}
		}
	}

	if flw != nil {
		for sym := range flw.symbols {
			added := e.add(sym)
			if added {
				changed = true
			}
		}
		if flw.eof {
			added := e.addEOF()
			if added {
				changed = true
			}
		}
	}

	return changed
}

// lookAheads returns the terminal symbols of the entry including the end marker.
func (e *followEntry) lookAheads() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(e.symbols)+1)
	if e.eof {
		syms = append(syms, symbol.SymbolEOF)
	}
	for sym := range e.symbols {
		syms = append(syms, sym)
	}
	return syms
}

type followSet struct {
	set map[symbol.Symbol]*followEntry
}

func newFollow(nonTerms []symbol.Symbol) *followSet {
	flw := &followSet{
		set: map[symbol.Symbol]*followEntry{},
	}
	for _, sym := range nonTerms {
		flw.set[sym] = newFollowEntry()
	}
	return flw
}

func (flw *followSet) find(sym symbol.Symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

type followComContext struct {
	prods  *productionSet
	first  *firstSet
	follow *followSet
}

func newFollowComContext(prods *productionSet, first *firstSet, nonTerms []symbol.Symbol) *followComContext {
	return &followComContext{
		prods:  prods,
		first:  first,
		follow: newFollow(nonTerms),
	}
}

// genFollowSet computes FOLLOW of every non-terminal. FOLLOW of the start symbol contains the end
// marker. For each occurrence of a non-terminal B in A → αBβ, FIRST(β) without the empty marker
// flows into FOLLOW(B), and so does FOLLOW(A) when β is nullable or empty.
func genFollowSet(prods *productionSet, first *firstSet, nonTerms []symbol.Symbol, start symbol.Symbol) (*followSet, error) {
	cc := newFollowComContext(prods, first, nonTerms)
	passes := 0
	for {
		passes++
		more := false
		for _, ntsym := range nonTerms {
			e, err := cc.follow.find(ntsym)
			if err != nil {
				return nil, err
			}
			changed, err := genFollowEntry(cc, e, ntsym, ntsym == start)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}
	tracer().Infof("FOLLOW sets converged after %d passes", passes)

	return cc.follow, nil
}

func genFollowEntry(cc *followComContext, acc *followEntry, ntsym symbol.Symbol, isStart bool) (bool, error) {
	changed := false

	if isStart {
		added := acc.addEOF()
		if added {
			changed = true
		}
	}
	for _, prod := range cc.prods.getAllProductions() {
		for i, sym := range prod.rhs {
			if sym != ntsym {
				continue
			}
			fst, err := cc.first.find(prod, i+1)
			if err != nil {
				return false, err
			}
			added := acc.merge(fst, nil)
			if added {
				changed = true
			}
			if fst.empty {
				flw, err := cc.follow.find(prod.lhs)
				if err != nil {
					return false, err
				}
				added := acc.merge(nil, flw)
				if added {
					changed = true
				}
			}
		}
	}

	return changed, nil
}
