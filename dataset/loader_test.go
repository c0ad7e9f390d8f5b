package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/icesales/pkg/errors"
)

func captureWarnings(t *testing.T) func() []error {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []error
	)
	errors.SetWarningHandler(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, w)
	})
	t.Cleanup(func() { errors.SetWarningHandler(nil) })
	return func() []error {
		mu.Lock()
		defer mu.Unlock()
		return append([]error(nil), seen...)
	}
}

func TestLoadReaderHeaders(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Record
	}{
		{
			name:  "english",
			input: "Date,Temperature,Sales\n01/01/2025,30,120\n02/01/2025,32.5,150\n",
			want: []Record{
				{Date: "01/01/2025", Temperature: 30, Sales: 120},
				{Date: "02/01/2025", Temperature: 32.5, Sales: 150},
			},
		},
		{
			name:  "portuguese with reordered columns",
			input: "Data,Vendas,Temperatura\n01/01/2025,120,30\n",
			want:  []Record{{Date: "01/01/2025", Temperature: 30, Sales: 120}},
		},
		{
			name:  "case and whitespace",
			input: " TEMP , sales \n27, 110\n",
			want:  []Record{{Temperature: 27, Sales: 110}},
		},
		{
			name:  "byte order mark",
			input: "\ufeffTemperature,Sales\n30,120\n",
			want:  []Record{{Temperature: 30, Sales: 120}},
		},
		{
			name:  "integral float sales",
			input: "Temperature,Sales\n30,120.0\n",
			want:  []Record{{Temperature: 30, Sales: 120}},
		},
		{
			name:  "header only",
			input: "Temperature,Sales\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := LoadReader(strings.NewReader(tt.input), "test")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ds.Records())
			assert.Equal(t, len(tt.want), ds.Rows())
			assert.Empty(t, ds.Dropped())
		})
	}
}

func TestLoadReaderDropsBadRows(t *testing.T) {
	warnings := captureWarnings(t)
	input := strings.Join([]string{
		"Date,Temperature,Sales",
		"01/01/2025,30,120",
		"02/01/2025,,150",
		"03/01/2025,hot,100",
		"04/01/2025,33,120.5",
		"05/01/2025,29",
		"06/01/2025,NaN,170",
		"07/01/2025,31,140",
	}, "\n")

	ds, err := LoadReader(strings.NewReader(input), "sales.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Rows())
	assert.Equal(t, 3, ds.Columns())
	require.Len(t, ds.Dropped(), 5)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, []int{
		ds.Dropped()[0].Line, ds.Dropped()[1].Line, ds.Dropped()[2].Line,
		ds.Dropped()[3].Line, ds.Dropped()[4].Line,
	})
	assert.Contains(t, ds.Dropped()[2].Reason, "whole number")

	got := warnings()
	require.Len(t, got, 1)
	var dropped *errors.DroppedRowsWarning
	require.True(t, errors.As(got[0], &dropped))
	assert.Equal(t, 5, dropped.Dropped)
	assert.Equal(t, 2, dropped.Kept)
}

func TestLoadReaderSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		missing []string
	}{
		{"no sales", "Date,Temperature\n01/01/2025,30\n", []string{ColumnSales}},
		{"no temperature", "Date,Vendas\n01/01/2025,30\n", []string{ColumnTemperature}},
		{"empty input", "", []string{ColumnTemperature, ColumnSales}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReader(strings.NewReader(tt.input), "test")
			var schemaErr *errors.SchemaError
			require.True(t, errors.As(err, &schemaErr), "got %v", err)
			assert.Equal(t, tt.missing, schemaErr.Missing)
		})
	}
}

func TestLoadIOErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	var ioErr *errors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = LoadReader(strings.NewReader("Temperature,Sales\n30,\"120\n"), "broken")
	assert.True(t, errors.As(err, &ioErr), "got %v", err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("Temperatura,Vendas\n30,120\n28,100\n"), 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source())
	assert.Equal(t, []float64{30, 28}, ds.Temperatures())
	assert.Equal(t, []float64{120, 100}, ds.Sales())
}
