package report

import (
	"encoding/json"
	"io"
)

// WriteJSON writes v as indented JSON. Missing statistics encode as null.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
