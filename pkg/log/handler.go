package log

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrFmtHandler は "error" 属性を持つレコードに、cockroachdb/errors のスタックと
// 根本原因の型名を別属性として追加する slog.Handler です。
type ErrFmtHandler struct {
	next slog.Handler
}

// WrapByErrFmtHandler は next を ErrFmtHandler で包みます。
func WrapByErrFmtHandler(next slog.Handler) slog.Handler {
	return &ErrFmtHandler{next: next}
}

func (h *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != ErrAttrKey {
			return true
		}
		err, _ = a.Value.Any().(error)
		return false
	})
	if err != nil {
		if st := extractStacktrace(err); st != "" {
			r.AddAttrs(slog.String(StacktraceAttrKey, st))
		}
		r.AddAttrs(slog.String(ErrorTypeKey, errorKind(err)))
	}
	return h.next.Handle(ctx, r)
}

func (h *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{next: h.next.WithGroup(g)}
}

// extractStacktrace はエラーチェーン中で最初に記録されたスタックを返します。
func extractStacktrace(err error) string {
	for _, d := range errors.GetAllSafeDetails(err) {
		if len(d.SafeDetails) > 0 && d.SafeDetails[0] != "" {
			return d.SafeDetails[0]
		}
	}
	return ""
}

// errorKind は根本原因の型名を返します（例: "NotFoundError"）。
func errorKind(err error) string {
	name := fmt.Sprintf("%T", errors.UnwrapAll(err))
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
