// Package metrics scores regression predictions against observed values.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/icesales/pkg/errors"
)

// residuals は yPred - yTrue を返す。空のベクトルや長さの不一致はエラー
func residuals(op string, yTrue, yPred *mat.VecDense) ([]float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	res := make([]float64, n)
	for i := range res {
		res[i] = yPred.AtVec(i) - yTrue.AtVec(i)
	}
	return res, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	res, err := residuals("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Dot(res, res) / float64(len(res)), nil
}

// MSEMatrix computes MSE over n×1 column matrices.
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, err := columnVector("MSEMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	p, err := columnVector("MSEMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return MSE(t, p)
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	res, err := residuals("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Norm(res, 1) / float64(len(res)), nil
}

// R2Score は決定係数（R²）を計算する
//
// R² = 1 - SS_res/SS_tot。実測値がすべて同じで SS_tot = 0 の場合は、
// 予測が完全一致なら 1、そうでなければ 0 を返し、UndefinedMetricWarning を発行する。
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	res, err := residuals("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	n := len(res)
	mean := mat.Sum(yTrue) / float64(n)
	var ssTot float64
	for i := 0; i < n; i++ {
		d := yTrue.AtVec(i) - mean
		ssTot += d * d
	}
	ssRes := floats.Dot(res, res)

	if ssTot == 0 {
		score := 0.0
		if ssRes == 0 {
			score = 1.0
		}
		errors.Warn(errors.NewUndefinedMetricWarning("r2_score", "a constant holdout target", score))
		return score, nil
	}
	return 1 - ssRes/ssTot, nil
}

func columnVector(op string, m mat.Matrix) (*mat.VecDense, error) {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	if c != 1 {
		return nil, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}
	return mat.NewVecDense(r, mat.Col(nil, 0, m)), nil
}
