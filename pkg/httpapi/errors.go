package httpapi

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-tripsurvey/pkg/engine"
	"github.com/goliatone/go-tripsurvey/pkg/transport"
)

var (
	ErrEngineRequired = errors.New("httpapi: engine is required")
	ErrInvalidBody    = errors.New("httpapi: invalid request body")
)

// HTTPError is implemented by errors that carry a response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError pins an error to a response status.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// statusFor maps engine errors onto response codes.
func statusFor(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode()
	}

	var validation *engine.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrUnknownField), errors.Is(err, engine.ErrUnknownAction):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrActionField), errors.Is(err, engine.ErrKindMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, transport.ErrMissingEndpoint):
		return http.StatusServiceUnavailable
	case errors.Is(err, transport.ErrSendFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
