package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/ll1/grammar/symbol"
)

// productionID is the positive number a user gives a production. It also decides the order in
// which productions are visited while sets and tables are computed.
type productionID int

const productionIDNil = productionID(0)

func (id productionID) Int() int {
	return int(id)
}

type production struct {
	id     productionID
	lhs    symbol.Symbol
	rhs    []symbol.Symbol
	rhsLen int
}

func newProduction(id productionID, lhs symbol.Symbol, rhs []symbol.Symbol) (*production, error) {
	if id <= productionIDNil {
		return nil, fmt.Errorf("a production ID must be positive; ID: %v", id)
	}
	if !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() || sym.IsEOF() {
			return nil, fmt.Errorf("a symbol of RHS must be a terminal, a non-terminal, or the empty marker; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &production{
		id:     id,
		lhs:    lhs,
		rhs:    rhs,
		rhsLen: len(rhs),
	}, nil
}

// isEmpty reports whether the production derives the empty string directly, that is, its RHS
// consists of nothing but empty markers.
func (p *production) isEmpty() bool {
	for _, sym := range p.rhs {
		if !sym.IsEmpty() {
			return false
		}
	}
	return true
}

type productionSet struct {
	lhs2Prods map[symbol.Symbol][]*production
	id2Prod   map[productionID]*production
	prods     []*production
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol.Symbol][]*production{},
		id2Prod:   map[productionID]*production{},
	}
}

// append adds a production keeping every list in ascending order of IDs. It returns false when
// the ID is already used.
func (ps *productionSet) append(prod *production) bool {
	if _, ok := ps.id2Prod[prod.id]; ok {
		return false
	}

	ps.id2Prod[prod.id] = prod
	ps.lhs2Prods[prod.lhs] = insertProduction(ps.lhs2Prods[prod.lhs], prod)
	ps.prods = insertProduction(ps.prods, prod)

	return true
}

func insertProduction(prods []*production, prod *production) []*production {
	i := sort.Search(len(prods), func(i int) bool {
		return prods[i].id > prod.id
	})
	prods = append(prods, nil)
	copy(prods[i+1:], prods[i:])
	prods[i] = prod
	return prods
}

func (ps *productionSet) findByID(id productionID) (*production, bool) {
	prod, ok := ps.id2Prod[id]
	return prod, ok
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*production, bool) {
	if lhs.IsNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

// getAllProductions returns all productions in ascending order of IDs.
func (ps *productionSet) getAllProductions() []*production {
	return ps.prods
}

func (ps *productionSet) maxID() productionID {
	if len(ps.prods) == 0 {
		return productionIDNil
	}
	return ps.prods[len(ps.prods)-1].id
}
