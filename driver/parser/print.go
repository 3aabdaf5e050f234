package parser

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pterm/pterm"
)

// PrintTree prints a derivation tree. Each node is shown as its label followed by its index.
func PrintTree(w io.Writer, tree *Tree) error {
	if tree == nil || tree.Len() == 0 {
		return nil
	}

	ll := leveledNode(tree, 1, pterm.LeveledList{}, 0)
	root := pterm.NewTreeFromLeveledList(ll)
	s, err := pterm.DefaultTree.WithRoot(root).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, s)
	return err
}

func leveledNode(tree *Tree, index int, ll pterm.LeveledList, level int) pterm.LeveledList {
	n := tree.Node(index)
	ll = append(ll, pterm.LeveledListItem{
		Level: level,
		Text:  fmt.Sprintf("%v (%v)", n.Label, n.Index),
	})
	for _, c := range tree.Children(index) {
		ll = leveledNode(tree, c.Index, ll, level+1)
	}
	return ll
}

// PrintNodeTable prints the index, the label, the parent, and the next sibling of each node.
func PrintNodeTable(w io.Writer, tree *Tree) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Index", "Symbol", "Father", "Sibling"})
	if tree != nil {
		for _, n := range tree.nodes {
			t.AppendRow(table.Row{n.Index, n.Label, n.Parent, n.Sibling})
		}
	}
	t.Render()
}
