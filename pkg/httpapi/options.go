package httpapi

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-tripsurvey/components/tourcodes"
	"github.com/goliatone/go-tripsurvey/pkg/contract"
	"github.com/goliatone/go-tripsurvey/pkg/report"
)

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReport sets the renderer behind GET /report.
func WithReport(renderer *report.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.report = renderer
		}
	}
}

// WithContractInfo describes the collector in GET /contract.
func WithContractInfo(info contract.Info) Option {
	return func(s *Server) {
		s.contractInfo = info
	}
}

// WithTourCodes mounts the tour code search under /tour-codes.
func WithTourCodes(codes []tourcodes.Code) Option {
	return func(s *Server) {
		s.tourCodes = append([]tourcodes.Code(nil), codes...)
	}
}

// WithClock overrides the time source used for reports.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}
