package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"wrangler/adapters/datareadiness/coercer"
	"wrangler/domain/core"
	"wrangler/domain/table"
	"wrangler/internal"
	apperrors "wrangler/internal/errors"
	"wrangler/ports"
)

// Loader reads Excel workbooks and CSV files into typed tables. It
// implements ports.WorkbookLoader.
type Loader struct {
	config  LoaderConfig
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

var _ ports.WorkbookLoader = (*Loader)(nil)

// NewLoader creates a loader. A nil logger falls back to the package default.
func NewLoader(config LoaderConfig, logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.SampleSize <= 0 {
		config.SampleSize = DefaultLoaderConfig().SampleSize
	}
	return &Loader{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.CoercionConfig),
		logger:  logger.With("loader"),
	}
}

// Load reads every sheet of the file at path. A CSV file yields a single
// table named after the file stem.
func (l *Loader) Load(ctx context.Context, path string) (*ports.Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.Unreadable(path, err)
	}

	var sheets []*rawSheet
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		sheets, err = l.readCSV(path)
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		sheets, err = l.readWorkbook(ctx, path)
	default:
		return nil, apperrors.Unreadable(path, fmt.Errorf("unsupported file type %q", ext))
	}
	if err != nil {
		return nil, err
	}

	wb := &ports.Workbook{
		Path:   path,
		Sheets: make([]string, 0, len(sheets)),
		Tables: make(map[string]*table.Table, len(sheets)),
	}
	for _, raw := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := l.buildTable(raw)
		if err != nil {
			return nil, apperrors.Structural(fmt.Sprintf("sheet %q", raw.Name), err)
		}
		wb.Sheets = append(wb.Sheets, raw.Name)
		wb.Tables[raw.Name] = t
	}
	return wb, nil
}

// LoadSheet reads one named sheet
func (l *Loader) LoadSheet(ctx context.Context, path, sheet string) (*table.Table, error) {
	wb, err := l.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	t, ok := wb.Table(sheet)
	if !ok {
		return nil, apperrors.WithCode(apperrors.CodeNotFound, core.NewSheetNotFoundError(sheet))
	}
	return t, nil
}

// readWorkbook reads all sheets with their native cell types
func (l *Loader) readWorkbook(ctx context.Context, path string) ([]*rawSheet, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.Unreadable(path, err)
	}
	defer f.Close()
	l.logger.Debug("workbook %s opened in %.2fms", path, float64(time.Since(startTime).Nanoseconds())/1e6)

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, apperrors.Unreadable(path, core.ErrEmptyWorkbook)
	}

	dates := newDateStyles(f)
	sheets := make([]*rawSheet, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		readStart := time.Now()
		// raw values keep percent and currency cells as the stored number
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, apperrors.Unreadable(path, fmt.Errorf("sheet %q: %w", name, err))
		}

		raw := newRawSheet(name, rows)
		raw.Types = make([][]excelize.CellType, len(raw.Rows))
		for i, row := range raw.Rows {
			raw.Types[i] = make([]excelize.CellType, len(row))
			for j, cell := range row {
				ref, err := excelize.CoordinatesToCellName(j+1, i+2)
				if err != nil {
					continue
				}
				ct, err := f.GetCellType(name, ref)
				if err != nil {
					continue
				}
				// numeric cells carry no type attribute
				if ct == excelize.CellTypeUnset {
					ct = excelize.CellTypeNumber
				}
				if ct == excelize.CellTypeNumber && cell != "" {
					if ts, ok := dates.convert(name, ref, cell); ok {
						row[j] = ts
						ct = excelize.CellTypeDate
					}
				}
				raw.Types[i][j] = ct
			}
		}
		l.logger.Debug("sheet %q read in %.2fms (%d rows)", name, float64(time.Since(readStart).Nanoseconds())/1e6, len(raw.Rows))
		sheets = append(sheets, raw)
	}
	return sheets, nil
}

// readCSV reads a CSV file as a single sheet
func (l *Loader) readCSV(path string) ([]*rawSheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Unreadable(path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.Unreadable(path, err)
	}
	l.logger.Debug("csv %s read in %.2fms (%d rows)", path, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return []*rawSheet{newRawSheet(stem, rows)}, nil
}

// newRawSheet splits the header row from the data rows. Blank headers get
// positional names; repeated headers are kept as they are.
func newRawSheet(name string, rows [][]string) *rawSheet {
	raw := &rawSheet{Name: name}
	if len(rows) == 0 {
		return raw
	}
	raw.Headers = make([]string, len(rows[0]))
	for i, header := range rows[0] {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("column_%d", i+1)
		}
		raw.Headers[i] = header
	}
	raw.Rows = rows[1:]
	return raw
}

// buildTable types each column of raw and assembles the table
func (l *Loader) buildTable(raw *rawSheet) (*table.Table, error) {
	columns := make([]*table.Column, len(raw.Headers))
	for j, header := range raw.Headers {
		values := make([]table.Value, len(raw.Rows))
		for i := range raw.Rows {
			cell, ct := raw.cell(i, j)
			values[i] = l.nativeValue(cell, ct)
		}
		storage := l.inferStorage(header, values)
		columns[j] = &table.Column{Name: header, Storage: storage, Values: l.materialize(values, storage)}
	}
	return table.NewTable(raw.Name, columns...)
}

// nativeValue converts one cell using its spreadsheet type when known.
// Empty cells are missing; everything unrecognised stays text.
func (l *Loader) nativeValue(cell string, ct excelize.CellType) table.Value {
	if cell == "" {
		return table.Missing()
	}
	switch ct {
	case excelize.CellTypeBool:
		if v := l.coercer.ParseBool(table.Text(cell)); !v.IsMissing() {
			return v
		}
	case excelize.CellTypeNumber:
		if f, ok := l.coercer.ParseFloat(table.Text(cell)).AsFloat(); ok {
			return numberValue(f)
		}
	case excelize.CellTypeDate:
		if v := l.coercer.ParseTimestamp(table.Text(cell)); !v.IsMissing() {
			return v
		}
	}
	return table.Text(cell)
}

// inferStorage picks the storage type from an evenly spread sample of the
// column, promoting low-cardinality text to categorical.
func (l *Loader) inferStorage(header string, values []table.Value) table.StorageType {
	indices := getStratifiedSample(len(values), l.config.SampleSize)
	sample := make([]table.Value, len(indices))
	for i, idx := range indices {
		sample[i] = values[idx]
	}

	analysis := l.coercer.AnalyzeTypeDistribution(sample)
	storage := analysis.RecommendedType

	if storage == table.StorageText && analysis.ValidCount > 0 {
		unique := make(map[string]struct{})
		for _, v := range sample {
			if !v.IsMissing() {
				unique[v.CanonicalText()] = struct{}{}
			}
		}
		ratio := float64(len(unique)) / float64(analysis.ValidCount)
		if len(unique) <= l.config.CategoricalMaxUnique && ratio < l.config.CategoricalMaxRatio {
			storage = table.StorageCategorical
		}
	}

	l.logger.Trace("column %q: %s (numeric=%.2f boolean=%.2f timestamp=%.2f)",
		header, storage, analysis.NumericRatio, analysis.BooleanRatio, analysis.TimestampRatio)
	return storage
}

// materialize converts cells to the representation of storage. Cells that
// do not parse keep their original value so the profiler can see them.
func (l *Loader) materialize(values []table.Value, storage table.StorageType) []table.Value {
	out := make([]table.Value, len(values))
	for i, v := range values {
		out[i] = v
		if v.IsMissing() {
			continue
		}
		switch storage {
		case table.StorageInteger:
			if f, ok := l.coercer.ParseFloat(v).AsFloat(); ok && v.Kind() != table.KindBoolean {
				out[i] = numberValue(f)
			}
		case table.StorageFloat:
			if f, ok := l.coercer.ParseFloat(v).AsFloat(); ok && v.Kind() != table.KindBoolean {
				out[i] = table.Float(f)
			}
		case table.StorageBoolean:
			if b := l.coercer.ParseBool(v); !b.IsMissing() {
				out[i] = b
			}
		case table.StorageTimestamp:
			if ts := l.coercer.ParseTimestamp(v); !ts.IsMissing() {
				out[i] = ts
			}
		case table.StorageCategorical:
			if s, ok := v.AsText(); ok {
				out[i] = table.Category(s)
			}
		}
	}
	return out
}

// numberValue keeps whole numbers as integers
func numberValue(f float64) table.Value {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return table.Int(int64(f))
	}
	return table.Float(f)
}

// getStratifiedSample returns evenly distributed row indices across the dataset
func getStratifiedSample(totalRows, sampleSize int) []int {
	if sampleSize >= totalRows {
		indices := make([]int, totalRows)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	indices := make([]int, 0, sampleSize)
	step := float64(totalRows) / float64(sampleSize)
	for i := 0; i < sampleSize; i++ {
		idx := int(math.Floor(float64(i) * step))
		if idx < totalRows {
			indices = append(indices, idx)
		}
	}
	return indices
}
