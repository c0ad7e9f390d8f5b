package model

import (
	"fmt"
	"time"

	"github.com/YuminosukeSato/icesales/core/parallel"
	"github.com/YuminosukeSato/icesales/pkg/errors"
)

// AlgorithmOLS is the algorithm name recorded for closed-form least squares fits.
const AlgorithmOLS = "LinearRegression"

// parallelThreshold is the batch size above which PredictAll fans out.
const parallelThreshold = 1 << 16

// Metadata describes how a FittedModel was produced.
type Metadata struct {
	ID        string    `json:"id"`
	Algorithm string    `json:"algorithm"`
	NSamples  int       `json:"n_samples"`
	FittedAt  time.Time `json:"fitted_at"`
	Seed      uint64    `json:"seed"`
	TestSize  float64   `json:"test_size"`
}

// FittedModel is the immutable result of a fit: sales ≈ slope·temperature + intercept.
// The zero value is not usable; build one with NewFittedModel.
type FittedModel struct {
	slope     float64
	intercept float64
	meta      Metadata
}

// NewFittedModel validates the coefficients and returns a model.
func NewFittedModel(slope, intercept float64, meta Metadata) (*FittedModel, error) {
	if err := errors.CheckNumericalStability("model.NewFittedModel", slope, intercept); err != nil {
		return nil, err
	}
	if meta.Algorithm == "" {
		meta.Algorithm = AlgorithmOLS
	}
	return &FittedModel{slope: slope, intercept: intercept, meta: meta}, nil
}

// Slope returns the coefficient of the temperature feature.
func (m *FittedModel) Slope() float64 { return m.slope }

// Intercept returns the intercept term.
func (m *FittedModel) Intercept() float64 { return m.intercept }

// Metadata returns a copy of the model metadata.
func (m *FittedModel) Metadata() Metadata { return m.meta }

// Predict returns slope·x + intercept. No clamping is applied.
func (m *FittedModel) Predict(x float64) float64 {
	return m.slope*x + m.intercept
}

// PredictAll applies Predict element-wise, preserving order and length.
func (m *FittedModel) PredictAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	parallel.ParallelizeWithThreshold(len(xs), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = m.slope*xs[i] + m.intercept
		}
	})
	return out
}

func (m *FittedModel) String() string {
	return fmt.Sprintf("sales = %.4f * temperature %+.4f", m.slope, m.intercept)
}
