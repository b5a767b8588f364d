package repositorycache

import (
	"log/slog"

	goerrors "github.com/goliatone/go-errors"
)

func (r *TasksRepository) logWarn(msg string, err error, attrs ...any) {
	r.logger.Warn(msg, append(attrs, errorAttrs(err)...)...)
}

func (r *TasksRepository) logError(msg string, err error, attrs ...any) {
	r.logger.Error(msg, append(attrs, errorAttrs(err)...)...)
}

// errorAttrs flattens err into slog attributes, including the category, text
// code and metadata carried by go-errors values.
func errorAttrs(err error) []any {
	attrs := []any{slog.String("error", err.Error())}
	for _, attr := range goerrors.ToSlogAttributes(err) {
		attrs = append(attrs, attr)
	}
	return attrs
}
