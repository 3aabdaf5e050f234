// Package compressor packs a sparse parsing table into a row displacement table. An LL(1) table
// has one row per non-terminal and one column per terminal, and most of its entries are empty.
package compressor

import (
	"fmt"
	"sort"
)

type OriginalTable struct {
	entries  []int
	rowCount int
	colCount int
}

func NewOriginalTable(entries []int, colCount int) (*OriginalTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &OriginalTable{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

type Compressor interface {
	Compress(orig *OriginalTable) error
	Lookup(row, col int) (int, error)
	OriginalTableSize() (int, int)
}

var _ Compressor = &RowDisplacementTable{}

// ForbiddenValue marks a slot of Bounds that no row owns.
const ForbiddenValue = -1

// RowDisplacementTable overlays all rows on one array. Row r starts at RowDisplacement[r], and
// Bounds records which row owns each slot so that an empty entry of one row isn't mistaken for a
// non-empty entry of another.
type RowDisplacementTable struct {
	OriginalRowCount int
	OriginalColCount int
	EmptyValue       int
	Entries          []int
	Bounds           []int
	RowDisplacement  []int
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if d+col >= len(tab.Bounds) || tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

// NonEmptyColumns returns the columns of a row holding non-empty entries in ascending order.
func (tab *RowDisplacementTable) NonEmptyColumns(row int) ([]int, error) {
	if row < 0 || row >= tab.OriginalRowCount {
		return nil, fmt.Errorf("a row index is out of range: %v", row)
	}
	var cols []int
	for col := 0; col < tab.OriginalColCount; col++ {
		v, err := tab.Lookup(row, col)
		if err != nil {
			return nil, err
		}
		if v == tab.EmptyValue {
			continue
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

type rowInfo struct {
	rowNum        int
	nonEmptyCount int
	nonEmptyCol   []int
}

// Compress places the densest rows first; each row goes to the lowest displacement at which none
// of its non-empty entries overlaps an occupied slot.
func (tab *RowDisplacementTable) Compress(orig *OriginalTable) error {
	rowInfo := make([]rowInfo, orig.rowCount)
	for row := 0; row < orig.rowCount; row++ {
		rowInfo[row].rowNum = row
		for col := 0; col < orig.colCount; col++ {
			if orig.entries[row*orig.colCount+col] == tab.EmptyValue {
				continue
			}
			rowInfo[row].nonEmptyCount++
			rowInfo[row].nonEmptyCol = append(rowInfo[row].nonEmptyCol, col)
		}
	}
	sort.SliceStable(rowInfo, func(i int, j int) bool {
		return rowInfo[i].nonEmptyCount > rowInfo[j].nonEmptyCount
	})

	var entries []int
	var bounds []int
	grow := func(size int) {
		for len(entries) < size {
			entries = append(entries, tab.EmptyValue)
			bounds = append(bounds, ForbiddenValue)
		}
	}
	grow(orig.colCount)

	rowDisplacement := make([]int, orig.rowCount)
	resultBottom := orig.colCount
	nextRowDisplacement := 0
	for _, rInfo := range rowInfo {
		if rInfo.nonEmptyCount <= 0 {
			continue
		}

		for {
			grow(nextRowDisplacement + orig.colCount)
			isOverlapped := false
			for _, col := range rInfo.nonEmptyCol {
				if bounds[nextRowDisplacement+col] == ForbiddenValue {
					continue
				}
				nextRowDisplacement++
				isOverlapped = true
				break
			}
			if isOverlapped {
				continue
			}

			rowDisplacement[rInfo.rowNum] = nextRowDisplacement
			for _, col := range rInfo.nonEmptyCol {
				entries[nextRowDisplacement+col] = orig.entries[(rInfo.rowNum*orig.colCount)+col]
				bounds[nextRowDisplacement+col] = rInfo.rowNum
			}
			if b := nextRowDisplacement + orig.colCount; b > resultBottom {
				resultBottom = b
			}
			nextRowDisplacement++
			break
		}
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries[:resultBottom]
	tab.Bounds = bounds[:resultBottom]
	tab.RowDisplacement = rowDisplacement

	return nil
}
