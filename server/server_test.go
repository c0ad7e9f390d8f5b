package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/icesales/core/model"
	"github.com/YuminosukeSato/icesales/pkg/log"
)

func newModel(t *testing.T, id string, slope, intercept float64) *model.FittedModel {
	t.Helper()
	m, err := model.NewFittedModel(slope, intercept, model.Metadata{
		ID:       id,
		FittedAt: time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return m
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestPredict(t *testing.T) {
	s := New(model.NewHandle(newModel(t, "m1", 10, -180)), Options{Mode: "test"}, nil)

	w, body := do(t, s.Handler(), http.MethodPost, "/predict", `{"temperature": 30}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30.0, body["temperature"])
	assert.Equal(t, 120.0, body["predicted_sales"])
	assert.Equal(t, "For a temperature of 30.0°C, expected sales are 120 ice creams.", body["message"])

	w, body = do(t, s.Handler(), http.MethodPost, "/predict", `{"temperature": 9.95}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -80.0, body["predicted_sales"])
}

func TestPredictBadRequests(t *testing.T) {
	s := New(model.NewHandle(newModel(t, "m1", 10, -180)), Options{Mode: "test"}, nil)

	for name, payload := range map[string]string{
		"missing field": `{}`,
		"wrong type":    `{"temperature": "hot"}`,
		"malformed":     `{"temperature":`,
		"empty body":    ``,
		"null":          `{"temperature": null}`,
	} {
		t.Run(name, func(t *testing.T) {
			w, body := do(t, s.Handler(), http.MethodPost, "/predict", payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, body["error"])
		})
	}

	w, _ := do(t, s.Handler(), http.MethodPost, "/predict", `{"temperature": 1e300}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictWithoutModel(t *testing.T) {
	s := New(model.NewHandle(nil), Options{Mode: "test"}, nil)

	w, _ := do(t, s.Handler(), http.MethodPost, "/predict", `{"temperature": 30}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, body := do(t, s.Handler(), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", body["status"])
	assert.Nil(t, body["model"])

	w, body = do(t, s.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["model_loaded"])
}

func TestStatus(t *testing.T) {
	s := New(model.NewHandle(newModel(t, "m1", 10, -180)), Options{Mode: "test"}, nil)

	w, body := do(t, s.Handler(), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "m1", body["model"])
	assert.Equal(t, "2025-01-10T08:00:00Z", body["fitted_at"])
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")
	handle := model.NewHandle(newModel(t, "old", 10, -180))
	logger, _ := log.NewTestLogger(log.LevelDebug)
	s := New(handle, Options{Mode: "test", ModelPath: path}, logger)

	// nothing on disk yet: previous model stays published
	w, body := do(t, s.Handler(), http.MethodPost, "/reload", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, body["error"], "model not found")
	assert.Equal(t, "old", handle.Load().Metadata().ID)
	assert.True(t, logger.ContainsMessage("Model reload failed"))

	require.NoError(t, model.SaveModel(newModel(t, "new", 5, 0), path))
	w, body = do(t, s.Handler(), http.MethodPost, "/reload", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new", body["model"])
	assert.Equal(t, "new", handle.Load().Metadata().ID)

	_, body = do(t, s.Handler(), http.MethodPost, "/predict", `{"temperature": 30}`)
	assert.Equal(t, 150.0, body["predicted_sales"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := New(model.NewHandle(newModel(t, "m1", 10, -180)), Options{Mode: "test"}, nil)
	do(t, s.Handler(), http.MethodPost, "/predict", `{"temperature": 30}`)
	do(t, s.Handler(), http.MethodPost, "/predict", `{}`)

	w, _ := do(t, s.Handler(), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	text := w.Body.String()
	assert.Contains(t, text, `icesales_http_requests_total{code="200",route="/predict"} 1`)
	assert.Contains(t, text, `icesales_http_requests_total{code="400",route="/predict"} 1`)
	assert.Contains(t, text, "icesales_model_predictions_total 1")
	assert.Contains(t, text, "icesales_model_slope 10")
}

func TestRunGracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s := New(model.NewHandle(newModel(t, "m1", 10, -180)), Options{Mode: "test", Addr: addr}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}
