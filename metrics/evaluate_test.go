package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/icesales/core/model"
	"github.com/YuminosukeSato/icesales/dataset"
	"github.com/YuminosukeSato/icesales/pkg/errors"
)

func TestEvaluatePerfectHoldout(t *testing.T) {
	m, err := model.NewFittedModel(10, -180, model.Metadata{})
	require.NoError(t, err)

	holdout := dataset.New("test", []dataset.Record{
		{Temperature: 28, Sales: 100},
		{Temperature: 30, Sales: 120},
		{Temperature: 34, Sales: 160},
	})
	got, err := Evaluate(m, holdout)
	require.NoError(t, err)

	assert.Equal(t, Metrics{MAE: 0, MSE: 0, RMSE: 0, R2: 1, N: 3}, got)
}

func TestEvaluate(t *testing.T) {
	m, err := model.NewFittedModel(10, -180, model.Metadata{})
	require.NoError(t, err)

	holdout := dataset.New("test", []dataset.Record{
		{Temperature: 28, Sales: 110}, // pred 100
		{Temperature: 30, Sales: 110}, // pred 120
		{Temperature: 32, Sales: 140}, // pred 140
		{Temperature: 34, Sales: 180}, // pred 160
	})
	got, err := Evaluate(m, holdout)
	require.NoError(t, err)

	assert.Equal(t, 4, got.N)
	assert.InDelta(t, 10, got.MAE, 1e-12)
	assert.InDelta(t, 150, got.MSE, 1e-12)
	assert.InDelta(t, math.Sqrt(150), got.RMSE, 1e-12)
	// mean 135, SS_tot = 625+625+25+2025 = 3300, SS_res = 600
	assert.InDelta(t, 1-600.0/3300.0, got.R2, 1e-12)
}

func TestEvaluateErrors(t *testing.T) {
	m, err := model.NewFittedModel(1, 0, model.Metadata{})
	require.NoError(t, err)

	var dataErr *errors.DataError
	_, err = Evaluate(m, dataset.New("test", nil))
	assert.True(t, errors.As(err, &dataErr))

	var notFitted *errors.NotFittedError
	_, err = Evaluate(nil, dataset.New("test", []dataset.Record{{Temperature: 1, Sales: 1}}))
	assert.True(t, errors.As(err, &notFitted))
}
