package ports

import (
	"wrangler/domain/datareadiness/profiling"
	"wrangler/domain/table"
)

// ProfilerPort analyzes a table to produce per-column diagnostic profiles
type ProfilerPort interface {
	Profile(t *table.Table, config profiling.Config) (*profiling.Report, error)
}

// TypeConverterPort coerces columns to declared storage types
type TypeConverterPort interface {
	ConvertTypes(t *table.Table, types map[string]table.StorageType) (*table.Table, error)
}
