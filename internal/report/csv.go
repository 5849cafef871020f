package report

import (
	"encoding/csv"
	"io"

	"wrangler/domain/table"
)

// WriteCSV writes t with a header row. Missing cells are empty.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}
	columns := t.Columns()
	record := make([]string, len(columns))
	for i := 0; i < t.RowCount(); i++ {
		for j, col := range columns {
			record[j] = col.Values[i].CanonicalText()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
