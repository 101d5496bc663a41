// Package compressor packs the dense tables of a compiled grammar.
package compressor

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// OriginalTable is a dense row-major table.
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

func (t *OriginalTable) row(r int) []int {
	return t.entries[r*t.colCount : (r+1)*t.colCount]
}

type Compressor interface {
	Compress(orig *OriginalTable) error
	Lookup(row, col int) (int, error)
	OriginalTableSize() (int, int)
}

var (
	_ Compressor = &UniqueEntriesTable{}
	_ Compressor = &RowDisplacementTable{}
)

// UniqueEntriesTable stores each distinct row once. States computing the same actions share a row.
type UniqueEntriesTable struct {
	UniqueEntries    []int `json:"unique_entries"`
	RowNums          []int `json:"row_nums"`
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
}

func NewUniqueEntriesTable() *UniqueEntriesTable {
	return &UniqueEntriesTable{}
}

func (tab *UniqueEntriesTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return tab.UniqueEntries[tab.RowNums[row]*tab.OriginalColCount+col], nil
}

func (tab *UniqueEntriesTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

// UniqueRowCount returns the number of distinct rows.
func (tab *UniqueEntriesTable) UniqueRowCount() int {
	if tab.OriginalColCount == 0 {
		return 0
	}
	return len(tab.UniqueEntries) / tab.OriginalColCount
}

func (tab *UniqueEntriesTable) Compress(orig *OriginalTable) error {
	var unique []int
	rowNums := make([]int, orig.rowCount)
	seen := map[string]int{}
	for r := 0; r < orig.rowCount; r++ {
		row := orig.row(r)
		key := rowKey(row)
		num, ok := seen[key]
		if !ok {
			num = len(seen)
			seen[key] = num
			unique = append(unique, row...)
		}
		rowNums[r] = num
	}

	tab.UniqueEntries = unique
	tab.RowNums = rowNums
	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount

	return nil
}

func rowKey(row []int) string {
	buf := make([]byte, 0, len(row)*binary.MaxVarintLen64)
	for _, v := range row {
		buf = binary.AppendVarint(buf, int64(v))
	}
	return string(buf)
}

// ForbiddenValue marks a slot of Bounds no row owns.
const ForbiddenValue = -1

// RowDisplacementTable overlays the rows of a sparse table onto one vector. Bounds records which row
// owns each slot, so a lookup landing on a slot owned by another row yields EmptyValue.
type RowDisplacementTable struct {
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
	EmptyValue       int   `json:"empty_value"`
	Entries          []int `json:"entries"`
	Bounds           []int `json:"bounds"`
	RowDisplacement  []int `json:"row_displacement"`
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
	if tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

type sparseRow struct {
	num  int
	cols []int
}

func (tab *RowDisplacementTable) Compress(orig *OriginalTable) error {
	rows := make([]*sparseRow, orig.rowCount)
	for r := 0; r < orig.rowCount; r++ {
		sr := &sparseRow{num: r}
		for c, v := range orig.row(r) {
			if v != tab.EmptyValue {
				sr.cols = append(sr.cols, c)
			}
		}
		rows[r] = sr
	}
	// Placing the densest rows first leaves the sparse ones to fill the gaps.
	sort.SliceStable(rows, func(i, j int) bool {
		return len(rows[i].cols) > len(rows[j].cols)
	})

	var entries, bounds []int
	grow := func(n int) {
		for len(entries) < n {
			entries = append(entries, tab.EmptyValue)
			bounds = append(bounds, ForbiddenValue)
		}
	}
	grow(orig.colCount)

	displacement := make([]int, orig.rowCount)
	for _, sr := range rows {
		if len(sr.cols) == 0 {
			continue
		}
		d := 0
		for !fits(bounds, d, sr.cols) {
			d++
		}
		grow(d + orig.colCount)
		displacement[sr.num] = d
		for _, c := range sr.cols {
			entries[d+c] = orig.entries[sr.num*orig.colCount+c]
			bounds[d+c] = sr.num
		}
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries
	tab.Bounds = bounds
	tab.RowDisplacement = displacement

	return nil
}

func fits(bounds []int, d int, cols []int) bool {
	for _, c := range cols {
		if d+c < len(bounds) && bounds[d+c] != ForbiddenValue {
			return false
		}
	}
	return true
}
