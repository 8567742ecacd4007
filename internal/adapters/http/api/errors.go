package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	service "github.com/okian/rankmerge/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrOutsideBaseDir   = errors.New("path escapes the base directory")
)

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", ErrBadRequest, err)
}

// statusFor maps a pipeline error to an HTTP status and error code. The code
// is the service error kind, or not_found for a missing input file.
func statusFor(err error) (int, string) {
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrOutsideBaseDir) {
		return http.StatusBadRequest, "bad_request"
	}
	if errors.Is(err, fs.ErrNotExist) {
		return http.StatusNotFound, "not_found"
	}
	switch kind := service.ErrorKind(err); kind {
	case service.KindEmptyInput, service.KindColumnNotFound, service.KindMalformedData:
		return http.StatusUnprocessableEntity, kind
	default:
		return http.StatusInternalServerError, kind
	}
}
