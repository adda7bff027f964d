package log

import (
	"context"
	"fmt"
	"log/slog"

	crdb "github.com/cockroachdb/errors"

	"github.com/YuminosukeSato/statkit/pkg/errors"
)

// ErrFmtHandler is a slog handler that enriches records carrying an error
// under ErrAttrKey: the cockroachdb stacktrace, the concrete error type and
// a stable error code.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps handler with ErrFmtHandler.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{
		handler: handler,
	}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var found error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == ErrAttrKey {
			if err, ok := attr.Value.Any().(error); ok {
				found = err
			}
			return false
		}
		return true
	})
	if found != nil {
		if stacktrace := extractStacktrace(found); stacktrace != "" {
			r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
		}
		if code := errorCode(found); code != "" {
			r.AddAttrs(slog.String(ErrorCodeKey, code))
		}
		r.AddAttrs(slog.String(ErrorTypeKey, errorType(found)))
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

func extractStacktrace(err error) string {
	safeDetails := crdb.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

// errorCode maps library errors to the Error* code constants.
// Sentinels are checked first so that a ModelError reports its cause.
func errorCode(err error) string {
	switch {
	case errors.Is(err, errors.ErrSingularMatrix):
		return ErrorSingularMatrix
	case errors.Is(err, errors.ErrZeroVariance):
		return ErrorZeroVariance
	case errors.Is(err, errors.ErrEmptyData):
		return ErrorEmptyData
	case errors.Is(err, errors.ErrUnknownCategory):
		return ErrorUnknownCategory
	}

	var notFitted *errors.NotFittedError
	var dim *errors.DimensionError
	var validation *errors.ValidationError
	var value *errors.ValueError
	switch {
	case errors.As(err, &notFitted):
		return ErrorNotFitted
	case errors.As(err, &dim):
		return ErrorDimensionMismatch
	case errors.As(err, &validation), errors.As(err, &value):
		return ErrorInvalidInput
	}
	return ""
}

// errorType reports the innermost statkit error type, or the outer Go type
// when the chain holds none.
func errorType(err error) string {
	var (
		notFitted *errors.NotFittedError
		dim       *errors.DimensionError
		valid     *errors.ValidationError
		value     *errors.ValueError
		modelErr  *errors.ModelError
		unknown   *errors.UnknownCategoryError
		numerical *errors.NumericalInstabilityError
		panicErr  *errors.PanicError
	)
	switch {
	case errors.As(err, &notFitted):
		return "NotFittedError"
	case errors.As(err, &dim):
		return "DimensionError"
	case errors.As(err, &valid):
		return "ValidationError"
	case errors.As(err, &value):
		return "ValueError"
	case errors.As(err, &unknown):
		return "UnknownCategoryError"
	case errors.As(err, &numerical):
		return "NumericalInstabilityError"
	case errors.As(err, &modelErr):
		return "ModelError"
	case errors.As(err, &panicErr):
		return "PanicError"
	}
	return fmt.Sprintf("%T", err)
}
