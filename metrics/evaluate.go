package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/icesales/core/model"
	"github.com/YuminosukeSato/icesales/dataset"
	"github.com/YuminosukeSato/icesales/pkg/errors"
)

// Metrics holds one evaluation of a model over a holdout set.
type Metrics struct {
	MAE  float64 `json:"mae"`
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
	N    int     `json:"n"`
}

// Evaluate はホールドアウトの全温度に対して予測し、MAE・MSE・RMSE・R² を計算する
//
// ホールドアウトが空の場合は DataError を返す。
func Evaluate(m *model.FittedModel, holdout *dataset.Dataset) (Metrics, error) {
	if m == nil {
		return Metrics{}, errors.NewNotFittedError("FittedModel", "Evaluate")
	}
	if holdout == nil || holdout.Rows() == 0 {
		return Metrics{}, errors.NewDataError("metrics.Evaluate", "holdout set is empty")
	}

	n := holdout.Rows()
	yTrue := mat.NewVecDense(n, holdout.Sales())
	yPred := mat.NewVecDense(n, m.PredictAll(holdout.Temperatures()))

	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return Metrics{}, err
	}
	mae, err := MAE(yTrue, yPred)
	if err != nil {
		return Metrics{}, err
	}
	r2, err := R2Score(yTrue, yPred)
	if err != nil {
		return Metrics{}, err
	}

	out := Metrics{MAE: mae, MSE: mse, RMSE: math.Sqrt(mse), R2: r2, N: n}
	if err := errors.CheckNumericalStability("metrics.Evaluate", out.MAE, out.MSE, out.R2); err != nil {
		return Metrics{}, err
	}
	return out, nil
}
