package table

import (
	"wrangler/domain/core"
)

// StorageType is the declared type of a column, as opposed to the runtime
// kind of the values it holds.
type StorageType string

const (
	StorageInteger     StorageType = "integer"
	StorageFloat       StorageType = "float"
	StorageBoolean     StorageType = "boolean"
	StorageTimestamp   StorageType = "timestamp"
	StorageText        StorageType = "text"
	StorageCategorical StorageType = "categorical"
	StorageMixed       StorageType = "mixed"
	StorageList        StorageType = "list"
	StorageMap         StorageType = "map"
)

// IsNumeric reports whether zero counting and numeric statistics apply
func (s StorageType) IsNumeric() bool {
	return s == StorageInteger || s == StorageFloat
}

// IsTextual reports whether empty-text counting applies
func (s StorageType) IsTextual() bool {
	return s == StorageText || s == StorageCategorical || s == StorageMixed
}

// ParseStorageType maps user-facing names (including common aliases) to a StorageType
func ParseStorageType(name string) (StorageType, bool) {
	switch name {
	case "int", "integer", "int64":
		return StorageInteger, true
	case "float", "float64", "number", "numeric":
		return StorageFloat, true
	case "bool", "boolean":
		return StorageBoolean, true
	case "timestamp", "datetime", "date", "time":
		return StorageTimestamp, true
	case "text", "string", "str":
		return StorageText, true
	case "category", "categorical":
		return StorageCategorical, true
	case "mixed", "object":
		return StorageMixed, true
	case "list":
		return StorageList, true
	case "map", "dict":
		return StorageMap, true
	}
	return "", false
}

// Column is a named, typed sequence of values
type Column struct {
	Name    string
	Storage StorageType
	Values  []Value
}

// NewColumn builds a column from plain Go values
func NewColumn(name string, storage StorageType, values ...any) *Column {
	col := &Column{Name: name, Storage: storage, Values: make([]Value, len(values))}
	for i, v := range values {
		col.Values[i] = Of(v)
	}
	return col
}

// Len returns the number of cells
func (c *Column) Len() int { return len(c.Values) }

// Clone returns a column with its own copy of the values slice
func (c *Column) Clone() *Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Storage: c.Storage, Values: values}
}

// Table is an ordered sequence of columns sharing a row count.
// Column names may repeat (for instance after a merge); lookups by name
// return every physical column in table order.
type Table struct {
	name    string
	columns []*Column
	rows    int
}

// NewTable validates the row count invariant and builds a table
func NewTable(name string, columns ...*Column) (*Table, error) {
	t := &Table{name: name, columns: make([]*Column, 0, len(columns))}
	for i, col := range columns {
		if col == nil {
			return nil, core.ErrNilColumn
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, core.NewRaggedTableError(col.Name, col.Len(), t.rows)
		}
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// MustTable is NewTable for fixtures; it panics on ragged input.
func MustTable(name string, columns ...*Column) *Table {
	t, err := NewTable(name, columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table (sheet) name
func (t *Table) Name() string { return t.name }

// RowCount returns the shared column length
func (t *Table) RowCount() int { return t.rows }

// Width returns the number of physical columns
func (t *Table) Width() int { return len(t.columns) }

// Columns returns the physical columns in order. The slice is a copy.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames returns the physical column names in order, duplicates included
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Lookup returns every physical column named name, in table order
func (t *Table) Lookup(name string) []*Column {
	var out []*Column
	for _, col := range t.columns {
		if col.Name == name {
			out = append(out, col)
		}
	}
	return out
}

// Column returns the first physical column named name
func (t *Table) Column(name string) (*Column, bool) {
	for _, col := range t.columns {
		if col.Name == name {
			return col, true
		}
	}
	return nil, false
}

// Rename returns a copy of the table with renamed columns. The receiver is untouched.
func (t *Table) Rename(mapping map[string]string) *Table {
	out := &Table{name: t.name, rows: t.rows, columns: make([]*Column, len(t.columns))}
	for i, col := range t.columns {
		renamed := *col
		if to, ok := mapping[col.Name]; ok {
			renamed.Name = to
		}
		out.columns[i] = &renamed
	}
	return out
}

// Replace returns a copy of the table where the first column named col.Name
// is swapped for col. A column that does not exist is appended.
func (t *Table) Replace(col *Column) (*Table, error) {
	columns := make([]*Column, 0, len(t.columns)+1)
	found := false
	for _, existing := range t.columns {
		if !found && existing.Name == col.Name {
			columns = append(columns, col)
			found = true
			continue
		}
		columns = append(columns, existing)
	}
	if !found {
		columns = append(columns, col)
	}
	return NewTable(t.name, columns...)
}

// Row returns the values of row i keyed by column name (first occurrence wins)
func (t *Table) Row(i int) map[string]Value {
	row := make(map[string]Value, len(t.columns))
	for _, col := range t.columns {
		if _, seen := row[col.Name]; !seen {
			row[col.Name] = col.Values[i]
		}
	}
	return row
}
