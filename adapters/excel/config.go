package excel

import (
	"wrangler/adapters/datareadiness/coercer"
)

// LoaderConfig holds configuration for spreadsheet ingestion
type LoaderConfig struct {
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
	// SampleSize caps the rows inspected when inferring a column's storage type
	SampleSize int `json:"sample_size"`
	// Text columns with at most CategoricalMaxUnique distinct values, and a
	// distinct ratio below CategoricalMaxRatio, load as categorical.
	CategoricalMaxUnique int     `json:"categorical_max_unique"`
	CategoricalMaxRatio  float64 `json:"categorical_max_ratio"`
}

// DefaultLoaderConfig returns sensible defaults for spreadsheet processing
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		CoercionConfig:       coercer.DefaultCoercionConfig(),
		SampleSize:           500,
		CategoricalMaxUnique: 20,
		CategoricalMaxRatio:  0.1,
	}
}
