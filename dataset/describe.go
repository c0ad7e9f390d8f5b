package dataset

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/icesales/pkg/errors"
)

// ColumnSummary holds the descriptive statistics of one numeric column.
// Std is the sample standard deviation (n-1 denominator), 0 for a single row.
type ColumnSummary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Description summarizes a dataset for exploration.
type Description struct {
	Temperature ColumnSummary `json:"temperature"`
	Sales       ColumnSummary `json:"sales"`
	// Correlation is Pearson's r between temperature and sales, 0 when
	// either column is constant.
	Correlation float64 `json:"correlation"`
	Dropped     int     `json:"dropped"`
}

// Describe computes per-column statistics and the temperature/sales correlation.
func Describe(ds *Dataset) (Description, error) {
	if ds.Rows() == 0 {
		return Description{}, errors.NewDataError("dataset.Describe", "dataset is empty")
	}
	x, y := ds.Temperatures(), ds.Sales()
	corr := 0.0
	if len(x) > 1 {
		corr = finiteOrZero(stat.Correlation(x, y, nil))
	}
	return Description{
		Temperature: summarize(x),
		Sales:       summarize(y),
		Correlation: corr,
		Dropped:     len(ds.dropped),
	}, nil
}

func summarize(v []float64) ColumnSummary {
	mean, std := stat.MeanStdDev(v, nil)
	return ColumnSummary{
		Count: len(v),
		Mean:  mean,
		Std:   finiteOrZero(std),
		Min:   floats.Min(v),
		Max:   floats.Max(v),
	}
}

func finiteOrZero(v float64) float64 {
	if !errors.IsFinite(v) {
		return 0
	}
	return v
}
