package engine

import (
	"errors"

	"github.com/goliatone/go-tripsurvey/pkg/payload"
	"github.com/goliatone/go-tripsurvey/pkg/transport"
)

var (
	ErrGatewayRequired = errors.New("engine: persistence gateway is required")
	ErrUnknownField    = errors.New("engine: unknown field")
	ErrActionField     = errors.New("engine: action fields do not hold answers")
	ErrKindMismatch    = errors.New("engine: operation does not match field kind")
	ErrUnknownAction   = errors.New("engine: unknown action")
	// ErrSaveFailed wraps persistence write failures. The in-memory edit is
	// kept when it is returned.
	ErrSaveFailed = errors.New("engine: save answers failed")
)

// Status messages shown to the person filling in the survey.
const (
	StatusSubmitting       = "Submitting..."
	StatusSubmitted        = "Submitted"
	StatusSaved            = "Saved"
	StatusSubmitFailed     = "Submit failed"
	StatusMissingEndpoint  = "Missing collector endpoint"
	StatusSelectRecipient  = "Select a Product Manager"
	StatusInvalidRecipient = "Enter an address ending in "
	StatusSaveFailed       = "Could not save answers"
)

// ValidationError reports a submission rejected before any transport call.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil || e.Err == nil {
		return "engine: validation failed"
	}
	return "engine: validation failed: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TransportError reports a submission the collector did not accept. The
// answers are untouched; calling Submit again retries.
type TransportError struct {
	Err     error
	Message string
}

func (e *TransportError) Error() string {
	if e == nil || e.Err == nil {
		return "engine: submit failed"
	}
	return "engine: submit failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StatusMessage maps an engine error to the user-facing status line.
func StatusMessage(err error) string {
	if err == nil {
		return StatusSubmitted
	}

	var validation *ValidationError
	if errors.As(err, &validation) && validation.Message != "" {
		return validation.Message
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) && transportErr.Message != "" {
		return transportErr.Message
	}

	switch {
	case errors.Is(err, transport.ErrMissingEndpoint):
		return StatusMissingEndpoint
	case errors.Is(err, payload.ErrRecipientMissing):
		return StatusSelectRecipient
	case errors.Is(err, payload.ErrRecipientInvalid):
		return StatusInvalidRecipient + payload.DefaultDomainSuffix
	case errors.Is(err, transport.ErrSendFailed):
		return StatusSubmitFailed
	case errors.Is(err, ErrSaveFailed):
		return StatusSaveFailed
	default:
		return err.Error()
	}
}

func validationError(err error, suffix string) *ValidationError {
	message := StatusSelectRecipient
	if errors.Is(err, payload.ErrRecipientInvalid) {
		message = StatusInvalidRecipient + suffix
	}
	return &ValidationError{Err: err, Message: message}
}

func transportError(err error) *TransportError {
	message := StatusSubmitFailed
	if errors.Is(err, transport.ErrMissingEndpoint) {
		message = StatusMissingEndpoint
	}
	return &TransportError{Err: err, Message: message}
}
