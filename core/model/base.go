package model

import "github.com/YuminosukeSato/icesales/pkg/errors"

// BaseEstimator は推定器に埋め込む学習状態
//
// 学習済みかどうかは保持している FittedModel の有無で決まる。
type BaseEstimator struct {
	fitted *FittedModel
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.fitted != nil
}

// SetFitted は学習結果を記録する
func (e *BaseEstimator) SetFitted(m *FittedModel) {
	e.fitted = m
}

// Model は学習結果を返す。未学習の場合は nil
func (e *BaseEstimator) Model() *FittedModel {
	return e.fitted
}

// Reset は学習結果を破棄する
func (e *BaseEstimator) Reset() {
	e.fitted = nil
}

// RequireFitted は学習結果を返し、未学習なら NotFittedError を返す
func (e *BaseEstimator) RequireFitted(name, method string) (*FittedModel, error) {
	if e.fitted == nil {
		return nil, errors.NewNotFittedError(name, method)
	}
	return e.fitted, nil
}
