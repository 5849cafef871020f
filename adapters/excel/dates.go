package excel

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// builtInDateFormats are the built-in number format ids that render a date
// or time, including the East Asian language formats
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// dateStyles recognises date-formatted serial numbers in one workbook.
// Excel stores dates as day counts, so the cell style is the only marker.
type dateStyles struct {
	file     *excelize.File
	date1904 bool
	byIndex  map[int]bool
}

func newDateStyles(f *excelize.File) *dateStyles {
	d := &dateStyles{file: f, byIndex: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// convert returns the cell as RFC 3339 text when its style is a date format
// and its raw value is a serial number
func (d *dateStyles) convert(sheet, ref, raw string) (string, bool) {
	idx, err := d.file.GetCellStyle(sheet, ref)
	if err != nil || !d.isDate(idx) {
		return "", false
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return "", false
	}
	return t.Format(time.RFC3339Nano), true
}

func (d *dateStyles) isDate(idx int) bool {
	if idx <= 0 {
		return false
	}
	if known, ok := d.byIndex[idx]; ok {
		return known
	}
	style, err := d.file.GetStyle(idx)
	date := err == nil && style != nil &&
		(builtInDateFormats[style.NumFmt] || (style.CustomNumFmt != nil && isDateFormatCode(*style.CustomNumFmt)))
	d.byIndex[idx] = date
	return date
}

// isDateFormatCode reports whether a custom format code contains date or
// time tokens outside quoted literals, escapes and bracketed sections
// such as colours and locales. Elapsed time like [h]:mm counts as time.
func isDateFormatCode(code string) bool {
	// only the positive section decides
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	inQuote := false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case c == '"':
			inQuote = true
		case c == '\\' || c == '_' || c == '*':
			i++
		case c == '[':
			end := strings.IndexByte(code[i:], ']')
			if end < 0 {
				return false
			}
			inner := strings.ToLower(code[i+1 : i+end])
			if inner != "" && strings.Trim(inner, "hms") == "" {
				return true
			}
			i += end
		default:
			switch c | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}
