package coercer

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"wrangler/domain/core"
	"wrangler/domain/table"
	apperrors "wrangler/internal/errors"
)

// ParseStructure reads a list or map literal such as "[1, 'a']" or
// "{'k': 2}". The literal must decode to the requested shape; anything
// else (including a plain scalar) yields Missing. Values that already
// have the requested kind pass through.
func (c *TypeCoercer) ParseStructure(v table.Value, want table.StorageType) table.Value {
	switch {
	case want == table.StorageList && v.Kind() == table.KindList,
		want == table.StorageMap && v.Kind() == table.KindMap:
		return v
	}
	s, ok := v.AsText()
	if !ok {
		return table.Missing()
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return table.Missing()
	}

	var decoded any
	if err := yaml.Unmarshal([]byte(s), &decoded); err != nil {
		return table.Missing()
	}

	switch want {
	case table.StorageList:
		if items, ok := decoded.([]any); ok {
			return table.List(items)
		}
	case table.StorageMap:
		switch m := decoded.(type) {
		case map[string]any:
			return table.Map(m)
		case map[any]any:
			out := make(map[string]any, len(m))
			for k, val := range m {
				out[fmt.Sprint(k)] = val
			}
			return table.Map(out)
		}
	}
	return table.Missing()
}

// ConvertTypes returns a new table whose named columns are converted to
// the requested storage types. Columns absent from the table are skipped;
// columns absent from types are carried over unchanged.
//
//   - integer: parse-or-missing number, failures become 0, truncated
//   - float: parse-or-missing number, failures stay missing
//   - boolean: trimmed lower-case text equal to "true" or "1"; missing is false
//   - list/map: literal parsing, failures become missing
//   - timestamp: parse-or-missing over the configured layouts
//   - text: canonical text, missing becomes ""
//   - categorical: canonical text as a category label, missing stays missing
func (c *TypeCoercer) ConvertTypes(t *table.Table, types map[string]table.StorageType) (*table.Table, error) {
	if t == nil {
		return nil, apperrors.Structural("convert types", core.ErrNilTable)
	}

	for name := range types {
		if len(t.Lookup(name)) == 0 {
			c.logger.Debug("convert types: column %q not in table %q, skipped", name, t.Name())
		}
	}

	columns := t.Columns()
	out := make([]*table.Column, len(columns))
	for i, col := range columns {
		want, ok := types[col.Name]
		if !ok {
			out[i] = col
			continue
		}
		out[i] = c.convertColumn(col, want)
	}
	return table.NewTable(t.Name(), out...)
}

func (c *TypeCoercer) convertColumn(col *table.Column, want table.StorageType) *table.Column {
	converted := &table.Column{Name: col.Name, Storage: want, Values: make([]table.Value, len(col.Values))}
	for i, v := range col.Values {
		converted.Values[i] = c.convertValue(v, want)
	}
	return converted
}

func (c *TypeCoercer) convertValue(v table.Value, want table.StorageType) table.Value {
	switch want {
	case table.StorageInteger:
		if parsed := c.ParseInt(v); !parsed.IsMissing() {
			return parsed
		}
		return table.Int(0)
	case table.StorageFloat:
		return c.ParseFloat(v)
	case table.StorageBoolean:
		if v.IsMissing() {
			return table.Bool(false)
		}
		text := strings.ToLower(strings.TrimSpace(v.CanonicalText()))
		return table.Bool(text == "true" || text == "1")
	case table.StorageList, table.StorageMap:
		if v.Kind() == table.KindText {
			return c.ParseStructure(v, want)
		}
		return v
	case table.StorageTimestamp:
		return c.ParseTimestamp(v)
	case table.StorageText:
		if v.IsMissing() {
			return table.Text("")
		}
		return table.Text(c.outputText(v.CanonicalText()))
	case table.StorageCategorical:
		if v.IsMissing() {
			return v
		}
		return table.Category(c.outputText(v.CanonicalText()))
	}
	return v
}

func (c *TypeCoercer) outputText(s string) string {
	if c.config.NormalizeStrings {
		return c.NormalizeString(s)
	}
	return s
}
