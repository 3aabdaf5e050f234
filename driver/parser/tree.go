package parser

type NodeKind int

const (
	NodeKindNonTerminal NodeKind = iota
	NodeKindTerminal
	NodeKindEmpty
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindNonTerminal:
		return "non-terminal"
	case NodeKindTerminal:
		return "terminal"
	case NodeKindEmpty:
		return "empty"
	}
	return "unknown"
}

// Node is a node of a derivation tree. Nodes refer to each other by index; index 0 means no node.
type Node struct {
	// Index is the 1-based creation order of a node.
	Index int

	// Label is the text of a grammar symbol. The parser overwrites the label of a terminal node with
	// the lexeme of the matched token.
	Label string

	// Symbol is the text of a grammar symbol and never changes.
	Symbol string

	Kind    NodeKind
	Parent  int
	Sibling int
	Row     int
	Col     int
}

// Tree is a derivation tree stored as a flat list of nodes in creation order. The root has index 1.
type Tree struct {
	nodes      []*Node
	firstChild []int
}

func newTree() *Tree {
	return &Tree{
		firstChild: []int{0},
	}
}

func (t *Tree) add(label string, kind NodeKind, parent int) int {
	idx := len(t.nodes) + 1
	t.nodes = append(t.nodes, &Node{
		Index:  idx,
		Label:  label,
		Symbol: label,
		Kind:   kind,
		Parent: parent,
	})
	t.firstChild = append(t.firstChild, 0)
	if parent > 0 && t.firstChild[parent] == 0 {
		t.firstChild[parent] = idx
	}
	return idx
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node of an index, or nil when the index is out of range.
func (t *Tree) Node(index int) *Node {
	if index < 1 || index > len(t.nodes) {
		return nil
	}
	return t.nodes[index-1]
}

func (t *Tree) Root() *Node {
	return t.Node(1)
}

// Nodes returns all nodes in creation order.
func (t *Tree) Nodes() []*Node {
	ns := make([]*Node, len(t.nodes))
	copy(ns, t.nodes)
	return ns
}

// Children returns the children of a node from left to right.
func (t *Tree) Children(index int) []*Node {
	if t.Node(index) == nil {
		return nil
	}
	var cs []*Node
	for c := t.firstChild[index]; c != 0; c = t.nodes[c-1].Sibling {
		cs = append(cs, t.nodes[c-1])
	}
	return cs
}

// Leaves returns the terminal nodes from left to right. Their labels spell out the input.
func (t *Tree) Leaves() []*Node {
	var leaves []*Node
	t.collectLeaves(1, &leaves)
	return leaves
}

func (t *Tree) collectLeaves(index int, leaves *[]*Node) {
	n := t.Node(index)
	if n == nil {
		return
	}
	if n.Kind == NodeKindTerminal {
		*leaves = append(*leaves, n)
		return
	}
	for c := t.firstChild[index]; c != 0; c = t.nodes[c-1].Sibling {
		t.collectLeaves(c, leaves)
	}
}
