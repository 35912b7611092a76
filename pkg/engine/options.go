package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-tripsurvey/pkg/payload"
	"github.com/goliatone/go-tripsurvey/pkg/schema"
)

// Option customises an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRouter replaces the recipient router.
func WithRouter(router payload.Router) Option {
	return func(e *Engine) {
		if router.DomainSuffix == "" {
			router.DomainSuffix = payload.DefaultDomainSuffix
		}
		e.router = router
	}
}

// WithSchemaOptions forwards options to every questionnaire build.
func WithSchemaOptions(options ...schema.Option) Option {
	return func(e *Engine) {
		e.schemaOptions = append(e.schemaOptions, options...)
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
