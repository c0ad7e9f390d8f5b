package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/icesales/pkg/errors"
)

func TestDescribe(t *testing.T) {
	ds := New("test", []Record{
		{Temperature: 28, Sales: 100},
		{Temperature: 30, Sales: 120},
		{Temperature: 32, Sales: 140},
		{Temperature: 34, Sales: 160},
	})

	d, err := Describe(ds)
	require.NoError(t, err)

	assert.Equal(t, 4, d.Temperature.Count)
	assert.InDelta(t, 31, d.Temperature.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(20.0/3.0), d.Temperature.Std, 1e-12)
	assert.Equal(t, 28.0, d.Temperature.Min)
	assert.Equal(t, 34.0, d.Temperature.Max)
	assert.InDelta(t, 130, d.Sales.Mean, 1e-12)
	assert.InDelta(t, 1.0, d.Correlation, 1e-12)
}

func TestDescribeDegenerate(t *testing.T) {
	d, err := Describe(New("test", []Record{{Temperature: 30, Sales: 120}}))
	require.NoError(t, err)
	assert.Zero(t, d.Temperature.Std)
	assert.Zero(t, d.Correlation)

	d, err = Describe(New("test", []Record{{Temperature: 30, Sales: 120}, {Temperature: 30, Sales: 150}}))
	require.NoError(t, err)
	assert.Zero(t, d.Correlation)

	_, err = Describe(New("test", nil))
	var dataErr *errors.DataError
	assert.True(t, errors.As(err, &dataErr))
}
