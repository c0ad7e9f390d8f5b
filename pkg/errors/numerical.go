package errors

import (
	"math"
	"slices"
)

// IsFinite は v が NaN でも ±Inf でもないかを返します。
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CheckNumericalStability は values に NaN/Inf が含まれていれば
// NumericalInstabilityError を返します。係数や指標を外に出す直前に使います。
func CheckNumericalStability(operation string, values ...float64) error {
	if slices.IndexFunc(values, func(v float64) bool { return !IsFinite(v) }) < 0 {
		return nil
	}
	return NewNumericalInstabilityError(operation, slices.Clone(values))
}

// CheckScalar は単一の値を検査します。
func CheckScalar(operation string, value float64) error {
	return CheckNumericalStability(operation, value)
}
