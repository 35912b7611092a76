package tripsurvey

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-tripsurvey/components/tourcodes"
	"github.com/goliatone/go-tripsurvey/internal/source"
	"github.com/goliatone/go-tripsurvey/pkg/answers"
	"github.com/goliatone/go-tripsurvey/pkg/engine"
	"github.com/goliatone/go-tripsurvey/pkg/model"
	"github.com/goliatone/go-tripsurvey/pkg/overlay"
	"github.com/goliatone/go-tripsurvey/pkg/payload"
	"github.com/goliatone/go-tripsurvey/pkg/persistence"
	"github.com/goliatone/go-tripsurvey/pkg/report"
	"github.com/goliatone/go-tripsurvey/pkg/schema"
	"github.com/goliatone/go-tripsurvey/pkg/transport"
)

// Options wires a session. Zero values select the file store, no collector
// endpoint, the default routing domain and the built-in questionnaire.
type Options struct {
	Storage   persistence.Config
	Endpoint  string
	Encoding  transport.Encoding
	Timeout   time.Duration
	Headers   map[string]string
	Router    payload.Router
	TourCodes []tourcodes.Code
	// Overlays, when set, is walked for JSON/YAML label overlays.
	Overlays fs.FS
	Logger   *zap.Logger
	Clock    func() time.Time
}

// Session bundles an engine with the gateway and sender it was built on.
type Session struct {
	Engine    *engine.Engine
	Gateway   persistence.Gateway
	Sender    *transport.HTTPSender
	TourCodes []tourcodes.Code
	Logger    *zap.Logger
}

// Open connects the configured store, loads overlays and builds the engine.
func Open(ctx context.Context, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	gateway, err := persistence.Open(ctx, opts.Storage)
	if err != nil {
		return nil, err
	}

	schemaOptions, err := schemaOptions(opts)
	if err != nil {
		_ = gateway.Close()
		return nil, err
	}

	senderOptions := []transport.Option{transport.WithLogger(logger.Named("transport"))}
	if opts.Encoding != "" {
		senderOptions = append(senderOptions, transport.WithEncoding(opts.Encoding))
	}
	if opts.Timeout > 0 {
		senderOptions = append(senderOptions, transport.WithTimeout(opts.Timeout))
	}
	for key, value := range opts.Headers {
		senderOptions = append(senderOptions, transport.WithHeader(key, value))
	}
	sender := transport.NewHTTPSender(opts.Endpoint, senderOptions...)

	engineOptions := []engine.Option{
		engine.WithLogger(logger.Named("engine")),
		engine.WithSchemaOptions(schemaOptions...),
		engine.WithClock(opts.Clock),
	}
	if opts.Router.DomainSuffix != "" || len(opts.Router.Recipients) > 0 {
		engineOptions = append(engineOptions, engine.WithRouter(opts.Router))
	}

	eng, err := engine.New(ctx, gateway, sender, engineOptions...)
	if err != nil {
		_ = gateway.Close()
		return nil, err
	}

	logger.Debug("session opened",
		zap.String("storage", gateway.Driver()),
		zap.Bool("endpoint", strings.TrimSpace(opts.Endpoint) != ""))

	return &Session{
		Engine:    eng,
		Gateway:   gateway,
		Sender:    sender,
		TourCodes: append([]tourcodes.Code(nil), opts.TourCodes...),
		Logger:    logger,
	}, nil
}

// Close releases the store.
func (s *Session) Close() error {
	if s == nil || s.Gateway == nil {
		return nil
	}
	return s.Gateway.Close()
}

// ReportInput gathers the current session state for report rendering.
func (s *Session) ReportInput(ctx context.Context, now time.Time) (report.Input, error) {
	id, err := s.Engine.SubmissionID(ctx)
	if err != nil {
		return report.Input{}, err
	}
	_, address, _ := s.Engine.Recipient()
	return report.Input{
		Questionnaire: s.Engine.Questionnaire(),
		Answers:       s.Engine.Answers(),
		Progress:      s.Engine.Progress(),
		SubmissionID:  id,
		Recipient:     address,
		GeneratedAt:   now,
	}, nil
}

func schemaOptions(opts Options) ([]schema.Option, error) {
	var out []schema.Option
	if len(opts.TourCodes) > 0 {
		out = append(out, schema.WithTourCodes(tourcodes.Values(opts.TourCodes)))
	}
	if opts.Overlays != nil {
		store, err := overlay.LoadFS(opts.Overlays)
		if err != nil {
			return nil, err
		}
		if !store.Empty() {
			out = append(out, schema.WithOverlay(store))
		}
	}
	return out, nil
}

// Generate builds the questionnaire for a set of answers without a session.
func Generate(reader answers.Reader, options ...schema.Option) model.Questionnaire {
	return schema.BuildFrom(reader, options...)
}

// LoadTourCodes reads a catalogue from a file path or http(s) URL. URLs are
// fetched with the given timeout.
func LoadTourCodes(ctx context.Context, location string, timeout time.Duration) ([]tourcodes.Code, error) {
	doc, err := newLoader(timeout).LoadLocation(ctx, location)
	if err != nil {
		return nil, err
	}
	codes, err := tourcodes.LoadCodes(bytes.NewReader(doc.Raw()))
	if err != nil {
		return nil, fmt.Errorf("tripsurvey: tour codes %s: %w", doc.Location(), err)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("tripsurvey: tour codes %s: %w", doc.Location(), errors.New("catalogue is empty"))
	}
	return codes, nil
}

// ReadDocument loads raw bytes from a file path or http(s) URL.
func ReadDocument(ctx context.Context, location string, timeout time.Duration) ([]byte, error) {
	doc, err := newLoader(timeout).LoadLocation(ctx, location)
	if err != nil {
		return nil, err
	}
	return doc.Raw(), nil
}

// MergeTourCodes appends extra to base, skipping codes already present.
func MergeTourCodes(base, extra []tourcodes.Code) []tourcodes.Code {
	out := append([]tourcodes.Code(nil), base...)
	seen := make(map[string]struct{}, len(out))
	for _, code := range out {
		seen[code.Code] = struct{}{}
	}
	for _, code := range extra {
		if _, ok := seen[code.Code]; ok {
			continue
		}
		seen[code.Code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// EmbeddedTemplates exposes the built-in report templates.
func EmbeddedTemplates() fs.FS {
	return report.TemplatesFS()
}

func newLoader(timeout time.Duration) *source.Loader {
	return source.NewLoader(source.WithHTTP(nil, timeout))
}
