// Package linear fits ordinary least squares models of sales on temperature.
package linear

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/icesales/core/model"
	"github.com/YuminosukeSato/icesales/dataset"
	"github.com/YuminosukeSato/icesales/metrics"
	"github.com/YuminosukeSato/icesales/pkg/errors"
)

// Fit は単回帰の最小二乗解を閉形式で求める
//
//	slope     = cov(x, y) / var(x)
//	intercept = mean(y) − slope·mean(x)
//
// x と y の長さが異なる場合は DimensionError、異なる温度が 2 種類未満の場合は
// DataError、係数が NaN/Inf になった場合は NumericalInstabilityError を返す。
func Fit(x, y []float64, opts ...Option) (*model.FittedModel, error) {
	if len(x) != len(y) {
		return nil, errors.NewDimensionError("linear.Fit", len(x), len(y), 0)
	}
	if len(x) == 0 {
		return nil, errors.NewDataError("linear.Fit", "training set is empty")
	}
	if len(lo.Uniq(x)) < 2 {
		return nil, errors.NewDataError("linear.Fit", "need at least 2 distinct temperature values")
	}

	meanX, varX := stat.MeanVariance(x, nil)
	meanY := stat.Mean(y, nil)
	slope := stat.Covariance(x, y, nil) / varX
	intercept := meanY - slope*meanX
	if err := errors.CheckNumericalStability("linear.Fit", slope, intercept); err != nil {
		return nil, err
	}

	cfg := newFitConfig(opts)
	return model.NewFittedModel(slope, intercept, model.Metadata{
		ID:        cfg.id,
		Algorithm: model.AlgorithmOLS,
		NSamples:  len(x),
		FittedAt:  cfg.now().UTC(),
		Seed:      cfg.seed,
		TestSize:  cfg.testSize,
	})
}

// FitDataset fits the dataset's temperature column against its sales column.
func FitDataset(ds *dataset.Dataset, opts ...Option) (*model.FittedModel, error) {
	return Fit(ds.Temperatures(), ds.Sales(), opts...)
}

// LinearRegression は gonum の行列を受け付ける推定器で、計算は Fit に委ねる
//
// X は n×1（温度）、y は n×1（販売数）。
type LinearRegression struct {
	model.BaseEstimator

	opts []Option
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	return &LinearRegression{opts: opts}
}

// Fit はモデルを訓練データで学習させる
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewDataError("LinearRegression.Fit", "empty data")
	}
	if c != 1 {
		return errors.NewDimensionError("LinearRegression.Fit", 1, c, 1)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	m, err := Fit(mat.Col(nil, 0, X), mat.Col(nil, 0, y), lr.opts...)
	if err != nil {
		return err
	}
	lr.SetFitted(m)
	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	fitted, err := lr.RequireFitted("LinearRegression", "Predict")
	if err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if c != 1 {
		return nil, errors.NewDimensionError("LinearRegression.Predict", 1, c, 1)
	}
	if r == 0 {
		return nil, errors.NewValueError("LinearRegression.Predict", "empty data")
	}
	return mat.NewDense(r, 1, fitted.PredictAll(mat.Col(nil, 0, X))), nil
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	if _, c := y.Dims(); c != 1 {
		return 0, errors.NewValueError("LinearRegression.Score", "y must be a column vector")
	}
	yTrue, yHat := mat.Col(nil, 0, y), mat.Col(nil, 0, yPred)
	return metrics.R2Score(mat.NewVecDense(len(yTrue), yTrue), mat.NewVecDense(len(yHat), yHat))
}

var _ model.Estimator = (*LinearRegression)(nil)
