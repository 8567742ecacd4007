package service

import (
	"context"
	"errors"

	"github.com/okian/rankmerge/internal/adapters/tabular"
	"github.com/okian/rankmerge/internal/domain/ranking"
	"github.com/okian/rankmerge/internal/domain/splitter"
	"github.com/okian/rankmerge/internal/domain/table"
)

// Error kinds reported in logs, metric labels and API error codes.
const (
	KindEmptyInput     = "empty_input"
	KindColumnNotFound = "column_not_found"
	KindMalformedData  = "malformed_data"
	KindIO             = "io"
	KindCanceled       = "canceled"
	KindInternal       = "internal"
)

// ErrorKind classifies err into one of the Kind constants.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, splitter.ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, table.ErrColumnNotFound):
		return KindColumnNotFound
	case errors.Is(err, ranking.ErrMalformedData), errors.Is(err, tabular.ErrMalformedFile):
		return KindMalformedData
	case errors.Is(err, tabular.ErrIO):
		return KindIO
	default:
		return KindInternal
	}
}
