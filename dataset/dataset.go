// Package dataset loads, summarizes, splits and generates the daily
// temperature/sales observations the regressor is trained on.
package dataset

import (
	"github.com/samber/lo"
)

// Record is one observed day.
type Record struct {
	Date        string  `json:"date,omitempty"`
	Temperature float64 `json:"temperature"`
	Sales       int     `json:"sales"`
}

// RowIssue reports a data row that was dropped while loading. Line is the
// 1-based line number in the source, counting the header as line 1.
type RowIssue struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Dataset is an ordered set of records plus what the loader saw on the way in.
type Dataset struct {
	source  string
	columns []string
	records []Record
	dropped []RowIssue
}

// New builds a dataset from records already in memory.
func New(source string, records []Record) *Dataset {
	return &Dataset{
		source:  source,
		columns: []string{ColumnDate, ColumnTemperature, ColumnSales},
		records: records,
	}
}

// Source names where the records came from (a path, "stdin", "synthetic", ...).
func (d *Dataset) Source() string { return d.source }

// Rows returns the number of kept records.
func (d *Dataset) Rows() int { return len(d.records) }

// Columns returns the number of columns in the source header.
func (d *Dataset) Columns() int { return len(d.columns) }

// Header returns the source header as read.
func (d *Dataset) Header() []string { return append([]string(nil), d.columns...) }

// Records returns the records in load order. The slice must not be modified.
func (d *Dataset) Records() []Record { return d.records }

// Dropped returns the rows the loader rejected.
func (d *Dataset) Dropped() []RowIssue { return d.dropped }

// Temperatures projects the temperature column.
func (d *Dataset) Temperatures() []float64 {
	return lo.Map(d.records, func(r Record, _ int) float64 { return r.Temperature })
}

// Sales projects the sales column as float64 for the numeric routines.
func (d *Dataset) Sales() []float64 {
	return lo.Map(d.records, func(r Record, _ int) float64 { return float64(r.Sales) })
}

// subset keeps the header and source but none of the dropped-row report.
func (d *Dataset) subset(records []Record) *Dataset {
	return &Dataset{source: d.source, columns: d.columns, records: records}
}
