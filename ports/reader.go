package ports

import (
	"context"

	"wrangler/domain/table"
)

// Workbook is the ordered set of tables read from one source file
type Workbook struct {
	Path   string
	Sheets []string
	Tables map[string]*table.Table
}

// Table returns the named sheet
func (w *Workbook) Table(sheet string) (*table.Table, bool) {
	t, ok := w.Tables[sheet]
	return t, ok
}

// WorkbookLoader turns a spreadsheet file into named tables. Loaders report
// unreadable or corrupt files themselves; the profiler never sees them.
type WorkbookLoader interface {
	Load(ctx context.Context, path string) (*Workbook, error)
}
