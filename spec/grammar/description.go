package grammar

type Terminal struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Pattern string `json:"pattern,omitempty"`
}

type NonTerminal struct {
	Number   int      `json:"number"`
	Name     string   `json:"name"`
	First    []string `json:"first"`
	Follow   []string `json:"follow"`
	Nullable bool     `json:"nullable"`
}

type Production struct {
	ID  int      `json:"id"`
	LHS string   `json:"lhs"`
	RHS []string `json:"rhs"`
}

type TableEntry struct {
	NonTerminal string `json:"non_terminal"`
	Terminal    string `json:"terminal"`
	Production  int    `json:"production"`
}

type Conflict struct {
	NonTerminal string `json:"non_terminal"`
	Terminal    string `json:"terminal"`
	Production1 int    `json:"production_1"`
	Production2 int    `json:"production_2"`
}

// Report describes how a grammar was analyzed. Sets and entries are sorted so that two reports of
// the same grammar are identical.
type Report struct {
	Name         string         `json:"name"`
	Start        string         `json:"start"`
	EndMarker    string         `json:"end_marker"`
	EmptyMarker  string         `json:"empty_marker"`
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	Table        []*TableEntry  `json:"table"`
	Conflicts    []*Conflict    `json:"conflicts"`
}
