package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-tripsurvey/pkg/payload"
)

// FormField is the form parameter carrying the JSON envelope.
const FormField = "payload"

// Encoding selects the request body format.
type Encoding string

const (
	// EncodingForm posts application/x-www-form-urlencoded "payload=<json>".
	EncodingForm Encoding = "form"
	// EncodingJSON posts the envelope as the raw JSON body.
	EncodingJSON Encoding = "json"
)

var (
	// ErrMissingEndpoint is returned when no collector endpoint is configured.
	ErrMissingEndpoint = errors.New("transport: missing collector endpoint")
	// ErrSendFailed wraps network failures and rejected responses.
	ErrSendFailed = errors.New("transport: send failed")
)

// Sender delivers a submission envelope to the collector. The response body
// is opaque; only failures are reported.
type Sender interface {
	Send(ctx context.Context, envelope payload.Envelope) error
}

// SenderFunc adapts a function into a Sender.
type SenderFunc func(ctx context.Context, envelope payload.Envelope) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, envelope payload.Envelope) error {
	return f(ctx, envelope)
}

// HTTPSender posts envelopes to an HTTP collector.
type HTTPSender struct {
	endpoint string
	client   *http.Client
	encoding Encoding
	timeout  time.Duration
	headers  map[string]string
	logger   *zap.Logger
}

// Option customises an HTTPSender.
type Option func(*HTTPSender)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *HTTPSender) {
		if client != nil {
			s.client = client
		}
	}
}

// WithEncoding selects the body format. Unknown values keep the form
// encoding.
func WithEncoding(encoding Encoding) Option {
	return func(s *HTTPSender) {
		if encoding == EncodingJSON {
			s.encoding = EncodingJSON
		}
	}
}

// WithTimeout bounds a single send. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(s *HTTPSender) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithHeader adds a request header to every send.
func WithHeader(key, value string) Option {
	return func(s *HTTPSender) {
		if key == "" {
			return
		}
		if s.headers == nil {
			s.headers = make(map[string]string)
		}
		s.headers[key] = value
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *HTTPSender) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHTTPSender constructs a sender for endpoint. An empty endpoint is
// accepted; every Send then fails with ErrMissingEndpoint.
func NewHTTPSender(endpoint string, options ...Option) *HTTPSender {
	sender := &HTTPSender{
		endpoint: strings.TrimSpace(endpoint),
		client:   http.DefaultClient,
		encoding: EncodingForm,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(sender)
		}
	}
	return sender
}

// Endpoint returns the configured collector URL.
func (s *HTTPSender) Endpoint() string {
	return s.endpoint
}

// Send implements Sender. No retry is attempted.
func (s *HTTPSender) Send(ctx context.Context, envelope payload.Envelope) error {
	if s.endpoint == "" {
		return ErrMissingEndpoint
	}

	raw, err := envelope.Encode()
	if err != nil {
		return fmt.Errorf("transport: encode envelope: %w", err)
	}

	body, contentType := s.body(raw)

	reqCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	for key, value := range s.headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("collector request failed",
			zap.String("submission_id", envelope.SubmissionID),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		s.logger.Warn("collector rejected submission",
			zap.String("submission_id", envelope.SubmissionID),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: unexpected status %s", ErrSendFailed, resp.Status)
	}

	s.logger.Info("submission delivered",
		zap.String("submission_id", envelope.SubmissionID),
		zap.Bool("final", envelope.IsFinal),
		zap.Int("status", resp.StatusCode))
	return nil
}

func (s *HTTPSender) body(raw []byte) (io.Reader, string) {
	if s.encoding == EncodingJSON {
		return strings.NewReader(string(raw)), "application/json"
	}
	form := url.Values{}
	form.Set(FormField, string(raw))
	return strings.NewReader(form.Encode()), "application/x-www-form-urlencoded;charset=UTF-8"
}
