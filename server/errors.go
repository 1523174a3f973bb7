package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/dialup-inc/hexpic"
	"github.com/dialup-inc/hexpic/acquire"
)

// httpError is a request problem found before any conversion started.
type httpError struct {
	code int
	msg  string
}

func (e *httpError) Error() string { return e.msg }

var (
	errMethod    = &httpError{code: http.StatusMethodNotAllowed, msg: "method not allowed"}
	errMediaType = &httpError{code: http.StatusUnsupportedMediaType, msg: "expected multipart/form-data or application/json"}
)

func badRequest(format string, args ...interface{}) error {
	return &httpError{code: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

// statusFor maps a conversion failure to an HTTP status code.
func statusFor(err error) int {
	var (
		he    *httpError
		kind  hexpic.Error
		fetch *acquire.FetchError
	)
	switch {
	case errors.As(err, &he):
		return he.code
	case errors.Is(err, hexpic.ErrDimensionMismatch):
		return http.StatusInternalServerError
	case errors.As(err, &kind):
		return http.StatusBadRequest
	case errors.Is(err, acquire.ErrUnsupportedScheme):
		return http.StatusBadRequest
	case errors.Is(err, acquire.ErrUnknownFormat), errors.Is(err, acquire.ErrMalformed):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, acquire.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case timedOut(err):
		return http.StatusGatewayTimeout
	case errors.As(err, &fetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// timedOut reports deadline failures, including http.Client timeouts that
// arrive wrapped in a FetchError.
func timedOut(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
