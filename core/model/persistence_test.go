package model

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/icesales/pkg/errors"
)

func testModel(t *testing.T, slope, intercept float64) *FittedModel {
	t.Helper()
	m, err := NewFittedModel(slope, intercept, Metadata{
		ID:       "0b7e6c4e-7a43-4a3b-9a52-0d1b8d4f3c11",
		NSamples: 80,
		FittedAt: time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC),
		Seed:     42,
		TestSize: 0.2,
	})
	require.NoError(t, err)
	return m
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tests := map[string]struct {
		file      string
		slope     float64
		intercept float64
	}{
		"gob":            {"model.gob", 10, -180},
		"bin extension":  {"nested/dir/model.bin", 9.876543210123, -171.00000000001},
		"zero intercept": {"zero.gob", 2.5, 0},
		"json":           {"model.json", 10.000000000000002, -180.5},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			m := testModel(t, tt.slope, tt.intercept)

			require.NoError(t, SaveModel(m, path))
			loaded, err := LoadModel(path)
			require.NoError(t, err)

			assert.Equal(t, m.Slope(), loaded.Slope())
			assert.Equal(t, m.Intercept(), loaded.Intercept())
			assert.Equal(t, m.Metadata().ID, loaded.Metadata().ID)
			assert.Equal(t, m.Metadata().NSamples, loaded.Metadata().NSamples)
			assert.True(t, m.Metadata().FittedAt.Equal(loaded.Metadata().FittedAt))
			assert.Equal(t, AlgorithmOLS, loaded.Metadata().Algorithm)
		})
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.gob")
	require.NoError(t, SaveModel(testModel(t, 1, 2), path))
	require.NoError(t, SaveModel(testModel(t, 3, 4), path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, loaded.Slope())
}

func TestSaveNilModel(t *testing.T) {
	err := SaveModel(nil, filepath.Join(t.TempDir(), "m.gob"))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}

func TestLoadMissing(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "missing.bin"))
	var notFound *errors.NotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)
	assert.Contains(t, notFound.Path, "missing.bin")
}

func TestLoadCorrupt(t *testing.T) {
	type otherShape struct {
		Name  string
		Count int
	}
	var foreign bytes.Buffer
	require.NoError(t, gob.NewEncoder(&foreign).Encode(otherShape{Name: "x", Count: 3}))

	var missingCoef bytes.Buffer
	require.NoError(t, gob.NewEncoder(&missingCoef).Encode(persistedModel{FormatVersion: formatVersion}))

	var badVersion bytes.Buffer
	require.NoError(t, gob.NewEncoder(&badVersion).Encode(persistedModel{FormatVersion: 99, Coefficients: []float64{1, 2}}))

	tests := map[string]struct {
		file    string
		content []byte
	}{
		"garbage":              {"m.gob", []byte("not a gob stream")},
		"empty":                {"m.gob", nil},
		"foreign gob":          {"m.gob", foreign.Bytes()},
		"missing coefficients": {"m.gob", missingCoef.Bytes()},
		"unknown version":      {"m.gob", badVersion.Bytes()},
		"json garbage":         {"m.json", []byte("{")},
		"json wrong model":     {"m.json", []byte(`{"model_spec":{"name":"Ridge"},"params":{"coefficients":[1],"intercept":2}}`)},
		"json no intercept":    {"m.json", []byte(`{"model_spec":{"name":"LinearRegression"},"params":{"coefficients":[1]}}`)},
		"json multi feature":   {"m.json", []byte(`{"model_spec":{"name":"LinearRegression"},"params":{"coefficients":[1,2],"intercept":0}}`)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, tt.content, 0o644))

			_, err := LoadModel(path)
			var corrupt *errors.CorruptionError
			assert.True(t, errors.As(err, &corrupt), "got %v", err)
		})
	}
}

func TestLoadSKLearnExport(t *testing.T) {
	// payload shaped like a model exported from Python
	payload := `{
  "model_spec": {"name": "LinearRegression", "format_version": "1.0", "sklearn_version": "1.5.0"},
  "params": {"coefficients": [9.5], "intercept": -165.25, "n_features": 1}
}`
	m, err := LoadSKLearnReader(bytes.NewBufferString(payload), "export.json")
	require.NoError(t, err)
	assert.Equal(t, 9.5, m.Slope())
	assert.Equal(t, -165.25, m.Intercept())
	assert.InDelta(t, 119.75, m.Predict(30), 1e-12)
}

func TestRemoveModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.gob")
	require.NoError(t, SaveModel(testModel(t, 1, 1), path))
	require.NoError(t, RemoveModel(path))

	var notFound *errors.NotFoundError
	assert.True(t, errors.As(RemoveModel(path), &notFound))
}

func TestHandleSwap(t *testing.T) {
	h := NewHandle(nil)
	assert.Nil(t, h.Load())

	first := testModel(t, 1, 0)
	second := testModel(t, 2, 0)
	assert.Nil(t, h.Swap(first))
	assert.Same(t, first, h.Load())
	assert.Same(t, first, h.Swap(second))
	assert.Same(t, second, h.Load())
}

func TestHandleConcurrentReaders(t *testing.T) {
	h := NewHandle(testModel(t, 10, -180))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m := h.Load()
				// a reader sees one consistent model
				got := m.Predict(30)
				if got != 120 && got != 150 {
					t.Errorf("unexpected prediction %v", got)
					return
				}
			}
		}()
	}
	for j := 0; j < 100; j++ {
		if j%2 == 0 {
			h.Swap(testModel(t, 11, -180))
		} else {
			h.Swap(testModel(t, 10, -180))
		}
	}
	wg.Wait()
}
