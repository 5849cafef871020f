// Package testkit provides deterministic tables for tests and demos.
package testkit

import (
	"wrangler/domain/table"
)

// AgeColumn mixes integers, a placeholder and a missing cell in a float column
func AgeColumn() *table.Column {
	return table.NewColumn("Age", table.StorageFloat, 25, 30, "?", nil, 30, 200)
}

// StatusColumn exercises the empty-text tokens
func StatusColumn() *table.Column {
	return table.NewColumn("Status", table.StorageText, "Active", "", "NA", "active ", nil)
}

// ConstantColumn has a single distinct value
func ConstantColumn() *table.Column {
	return table.NewColumn("Constant", table.StorageInteger, 10, 10, 10, 10, 10)
}

// SkewedColumn has one far outlier: Q1=3.25, Q3=7.75
func SkewedColumn() *table.Column {
	return table.NewColumn("Skewed", table.StorageInteger, 1, 2, 3, 4, 5, 6, 7, 8, 9, 1000)
}

// SurveyTable is a small sheet with one column of each storage type
func SurveyTable() *table.Table {
	return table.MustTable("survey",
		table.NewColumn("id", table.StorageInteger, 1, 2, 3, 4, 5),
		table.NewColumn("score", table.StorageFloat, 7.5, 0, -1.25, nil, 9),
		table.NewColumn("city", table.StorageText, "Cali", " ", "NULL", "Cali", "2024-05-01"),
		table.NewColumn("segment", table.StorageCategorical, "a", "b", "a", nil, "?"),
		table.NewColumn("vip", table.StorageBoolean, true, false, nil, true, "?"),
		table.NewColumn("mixed", table.StorageMixed, 1, "1", 1.5, true, "None"),
	)
}

// DuplicateNameTable carries two physical columns named "amount"
func DuplicateNameTable() *table.Table {
	return table.MustTable("merged",
		table.NewColumn("key", table.StorageInteger, 1, 2, 3),
		table.NewColumn("amount", table.StorageFloat, 10.0, 20.0, 30.0),
		table.NewColumn("amount", table.StorageText, "x", "y", "z"),
	)
}
