package excel

import (
	"github.com/xuri/excelize/v2"
)

// rawSheet is one sheet before typing: a header row and string cells,
// with the native cell type alongside each cell when the source has one.
type rawSheet struct {
	Name    string
	Headers []string
	Rows    [][]string
	Types   [][]excelize.CellType // nil for CSV
}

// cell returns the string at (row, col); short rows read as empty
func (s *rawSheet) cell(row, col int) (string, excelize.CellType) {
	r := s.Rows[row]
	if col >= len(r) {
		return "", excelize.CellTypeUnset
	}
	if s.Types == nil || col >= len(s.Types[row]) {
		return r[col], excelize.CellTypeUnset
	}
	return r[col], s.Types[row][col]
}
