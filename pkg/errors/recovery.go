package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// PanicError はパイプラインのステージやハンドラ内で回収された panic を表します。
type PanicError struct {
	Operation  string // panic が回収された処理名（例: "pipeline.plots"）
	PanicValue any    // panic() に渡された値
	StackTrace string // 回収時点のスタック
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap は panic の値が error（runtime.Error など）の場合にそれを返します。
func (e *PanicError) Unwrap() error {
	if err, ok := e.PanicValue.(error); ok {
		return err
	}
	return nil
}

// String はスタックを含む詳細表示です。
func (e *PanicError) String() string {
	return fmt.Sprintf("%s\nStack trace:\n%s", e.Error(), e.StackTrace)
}

// MarshalZerologObject はzerologのイベントに panic 情報を追加します。
func (e *PanicError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("operation", e.Operation).
		Str("panic", fmt.Sprint(e.PanicValue)).
		Str("stacktrace", e.StackTrace)
}

// NewPanicError は現在のスタックを記録した PanicError を作成します。
func NewPanicError(operation string, panicValue any) *PanicError {
	return &PanicError{
		Operation:  operation,
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
	}
}

// Recover は defer で呼び出し、panic を *err に変換します。
//
//	func (r *run) plots() (err error) {
//	    defer errors.Recover(&err, "pipeline.plots")
//	    ...
//	}
//
// *err に既にエラーがある場合はそれを保持し、panic は副次エラーとして添付します。
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	panicErr := NewPanicError(operation, r)
	if *err == nil {
		*err = panicErr
		return
	}
	*err = errors.WithSecondaryError(
		errors.Wrapf(*err, "panic in %s: %v", operation, r),
		panicErr,
	)
}

// SafeExecute は fn を実行し、panic が起きた場合は PanicError を返します。
// fn が返したエラーはそのまま返します。
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
