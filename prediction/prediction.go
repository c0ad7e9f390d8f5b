// Package prediction turns a fitted model into integer sales forecasts.
package prediction

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/icesales/core/model"
	"github.com/YuminosukeSato/icesales/pkg/errors"
)

// PredictSales は温度 t に対する販売数の予測を整数で返す
//
// slope·t + intercept を 0 方向に切り捨てる。負の値もそのまま返す。
func PredictSales(m *model.FittedModel, temperature float64) (int, error) {
	if m == nil {
		return 0, errors.NewNotFittedError("FittedModel", "PredictSales")
	}
	if !errors.IsFinite(temperature) {
		return 0, errors.NewValueError("prediction.PredictSales", fmt.Sprintf("temperature must be finite, got %v", temperature))
	}
	raw := m.Predict(temperature)
	if err := errors.CheckScalar("prediction.PredictSales", raw); err != nil {
		return 0, err
	}
	if raw > math.MaxInt32 || raw < math.MinInt32 {
		return 0, errors.NewValueError("prediction.PredictSales", fmt.Sprintf("prediction %g out of range", raw))
	}
	return int(math.Trunc(raw)), nil
}

// Response is what adapters render for one prediction.
type Response struct {
	Temperature    float64 `json:"temperature"`
	PredictedSales int     `json:"predicted_sales"`
	Message        string  `json:"message"`
}

// Message formats the human-readable sentence for a prediction.
func Message(temperature float64, sales int) string {
	return fmt.Sprintf("For a temperature of %.1f°C, expected sales are %d ice creams.", temperature, sales)
}

// Service answers predictions from whatever model the handle currently publishes.
type Service struct {
	handle *model.Handle
}

// NewService returns a service reading from h.
func NewService(h *model.Handle) *Service {
	return &Service{handle: h}
}

// Predict loads the published model once and predicts with it. It returns
// errors.ErrNoModel when nothing has been published yet.
func (s *Service) Predict(temperature float64) (Response, error) {
	m := s.handle.Load()
	if m == nil {
		return Response{}, errors.WithStack(errors.ErrNoModel)
	}
	sales, err := PredictSales(m, temperature)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Temperature:    temperature,
		PredictedSales: sales,
		Message:        Message(temperature, sales),
	}, nil
}

// Model returns the currently published model, or nil.
func (s *Service) Model() *model.FittedModel {
	return s.handle.Load()
}
