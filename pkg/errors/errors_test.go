package errors

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestBoundaryErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
		target  interface{}
	}{
		{
			name:    "io error",
			err:     NewIOError("dataset.Load", "inputs/sales.csv", fs.ErrNotExist),
			wantMsg: `icesales: dataset.Load: cannot read "inputs/sales.csv": file does not exist`,
			target:  new(*IOError),
		},
		{
			name:    "schema error",
			err:     NewSchemaError([]string{"sales"}, []string{"Data", "Temperatura"}),
			wantMsg: "icesales: missing required column(s) [sales]; header has [Data, Temperatura]",
			target:  new(*SchemaError),
		},
		{
			name:    "config error",
			err:     NewConfigError("data.test_size", "must be in (0, 1)", 1.5),
			wantMsg: "icesales: invalid config 'data.test_size': must be in (0, 1) (got: 1.5)",
			target:  new(*ConfigError),
		},
		{
			name:    "data error",
			err:     NewDataError("linear.Fit", "need at least 2 distinct temperatures"),
			wantMsg: "icesales: linear.Fit: need at least 2 distinct temperatures",
			target:  new(*DataError),
		},
		{
			name:    "not found",
			err:     NewNotFoundError("missing.bin"),
			wantMsg: `icesales: model not found at "missing.bin"`,
			target:  new(*NotFoundError),
		},
		{
			name:    "corruption",
			err:     NewCorruptionError("model.gob", "missing slope", nil),
			wantMsg: `icesales: corrupt model "model.gob": missing slope`,
			target:  new(*CorruptionError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", tt.err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", tt.err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			if !As(tt.err, tt.target) {
				t.Errorf("Error should be castable to %T", tt.target)
			}
		})
	}
}

func TestIOErrorUnwrap(t *testing.T) {
	err := NewIOError("dataset.Load", "x.csv", fs.ErrPermission)
	if !Is(err, fs.ErrPermission) {
		t.Error("Expected Is(err, fs.ErrPermission) to be true")
	}

	wrapped := Wrap(err, "stage load")
	var ioErr *IOError
	if !As(wrapped, &ioErr) {
		t.Fatal("wrapped error should still be an *IOError")
	}
	if ioErr.Path != "x.csv" {
		t.Errorf("Path = %q, want x.csv", ioErr.Path)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("LinearRegression", "Predict")

	want := "icesales: LinearRegression: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("linear.Fit", 4, 3, 0)

	want := "icesales: linear.Fit: dimension mismatch on axis 0 (rows). Expected 4, got 3"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestNumericalChecks(t *testing.T) {
	if err := CheckScalar("slope", 1.5); err != nil {
		t.Errorf("CheckScalar(1.5) = %v, want nil", err)
	}

	err := CheckNumericalStability("fit", 1, 2, nanValue())
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
	if !strings.Contains(err.Error(), "NaN") {
		t.Errorf("message should mention NaN: %s", err.Error())
	}
	if IsFinite(nanValue()) {
		t.Error("IsFinite(NaN) should be false")
	}
}

func TestWarnRouting(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewUndefinedMetricWarning("r2", "constant holdout", 0))
	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}

	// zerologが設定されている場合はそちらが優先される
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	SetZerologWarnFunc(func(w error) {
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			zl.Warn().EmbedObject(m).Msg(w.Error())
			return
		}
		zl.Warn().Msg(w.Error())
	})
	defer SetZerologWarnFunc(nil)

	Warn(NewDroppedRowsWarning("sales.csv", 2, 98))
	if len(got) != 1 {
		t.Errorf("handler should not be called when zerolog is set, got %d calls", len(got))
	}
	if !strings.Contains(buf.String(), `"type":"DroppedRowsWarning"`) {
		t.Errorf("zerolog output missing structured fields: %s", buf.String())
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "stage %s", "split")

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "stage split"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}
