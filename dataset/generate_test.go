package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/icesales/pkg/errors"
)

func TestGenerateSynthetic(t *testing.T) {
	ds, err := GenerateSynthetic(100, 42)
	require.NoError(t, err)
	require.Equal(t, 100, ds.Rows())

	recs := ds.Records()
	assert.Equal(t, seedRecords, recs[:len(seedRecords)])
	assert.Equal(t, "10/01/2025", recs[9].Date)
	assert.Equal(t, "01/02/2025", recs[31].Date)

	for _, r := range recs[len(seedRecords):] {
		assert.GreaterOrEqual(t, r.Temperature, 20.0)
		assert.LessOrEqual(t, r.Temperature, 37.0)
		assert.GreaterOrEqual(t, r.Sales, salesFloor-jitter)
	}

	again, err := GenerateSynthetic(100, 42)
	require.NoError(t, err)
	assert.Equal(t, recs, again.Records())

	other, err := GenerateSynthetic(100, 43)
	require.NoError(t, err)
	assert.NotEqual(t, recs, other.Records())

	d, err := Describe(ds)
	require.NoError(t, err)
	assert.Greater(t, d.Correlation, 0.8)
}

func TestGenerateSyntheticSmall(t *testing.T) {
	ds, err := GenerateSynthetic(4, 1)
	require.NoError(t, err)
	assert.Equal(t, seedRecords[:4], ds.Records())

	_, err = GenerateSynthetic(0, 1)
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	ds, err := GenerateSynthetic(30, 5)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "inputs", "ice_cream_sales.csv")
	require.NoError(t, WriteCSV(ds, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ds.Records(), loaded.Records())
	assert.Equal(t, []string{ColumnDate, ColumnTemperature, ColumnSales}, loaded.Header())
}
