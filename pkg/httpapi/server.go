package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/goliatone/go-tripsurvey/components/tourcodes"
	"github.com/goliatone/go-tripsurvey/pkg/completion"
	"github.com/goliatone/go-tripsurvey/pkg/contract"
	"github.com/goliatone/go-tripsurvey/pkg/engine"
	"github.com/goliatone/go-tripsurvey/pkg/model"
	"github.com/goliatone/go-tripsurvey/pkg/report"
)

const maxBodyBytes = 1 << 20

// Server exposes one engine session over JSON. The engine is not safe for
// concurrent use, so every handler runs under the server mutex.
type Server struct {
	mu           sync.Mutex
	engine       *engine.Engine
	report       *report.Renderer
	contractInfo contract.Info
	tourCodes    []tourcodes.Code
	logger       *zap.Logger
	now          func() time.Time
}

// New wraps eng. A report renderer with defaults is created when none is
// supplied.
func New(eng *engine.Engine, options ...Option) (*Server, error) {
	if eng == nil {
		return nil, ErrEngineRequired
	}
	s := &Server{
		engine: eng,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.report == nil {
		renderer, err := report.New()
		if err != nil {
			return nil, err
		}
		s.report = renderer
	}
	return s, nil
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/questionnaire", s.locked(s.questionnaire)).Methods(http.MethodGet)
	r.HandleFunc("/answers", s.locked(s.answers)).Methods(http.MethodGet)
	r.HandleFunc("/answers", s.locked(s.clear)).Methods(http.MethodDelete)
	r.HandleFunc("/answers/{field}", s.locked(s.setAnswer)).Methods(http.MethodPut)
	r.HandleFunc("/answers/{field}/options", s.locked(s.toggleOption)).Methods(http.MethodPost)
	r.HandleFunc("/actions/{action}", s.locked(s.invokeAction)).Methods(http.MethodPost)
	r.HandleFunc("/progress", s.locked(s.progress)).Methods(http.MethodGet)
	r.HandleFunc("/recipient", s.locked(s.recipient)).Methods(http.MethodGet)
	r.HandleFunc("/recipient", s.locked(s.selectRecipient)).Methods(http.MethodPut)
	r.HandleFunc("/submit", s.locked(s.submit)).Methods(http.MethodPost)
	r.HandleFunc("/report", s.locked(s.renderReport)).Methods(http.MethodGet)
	r.HandleFunc("/contract", s.locked(s.contract)).Methods(http.MethodGet)

	if len(s.tourCodes) > 0 {
		r.Handle(tourcodes.MountPath(""), tourcodes.Handler(tourcodes.WithCodes(s.tourCodes))).
			Methods(http.MethodGet, http.MethodHead)
	}
	return r
}

func (s *Server) locked(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next(w, r)
	}
}

type questionnaireResponse struct {
	Questionnaire model.Questionnaire `json:"questionnaire"`
	Titles        map[string]string   `json:"titles"`
	ActionLabel   string              `json:"actionLabel"`
}

type progressResponse struct {
	Progress    completion.Report `json:"progress"`
	ActionLabel string            `json:"actionLabel"`
}

type answerRequest struct {
	Value   *string  `json:"value"`
	Options []string `json:"options"`
}

type toggleRequest struct {
	Option  string `json:"option"`
	Present bool   `json:"present"`
}

type recipientRequest struct {
	Choice string `json:"choice"`
	Other  string `json:"other"`
}

type recipientResponse struct {
	Choice  string `json:"choice"`
	Address string `json:"address,omitempty"`
	Status  string `json:"status,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) questionnaire(w http.ResponseWriter, _ *http.Request) {
	q := s.engine.Questionnaire()
	titles := make(map[string]string, len(q.Sections))
	for _, section := range q.Sections {
		titles[section.ID] = s.engine.DerivedLabel(section.ID)
	}
	writeJSON(w, http.StatusOK, questionnaireResponse{
		Questionnaire: q,
		Titles:        titles,
		ActionLabel:   s.engine.ActionLabel(),
	})
}

func (s *Server) answers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Answers())
}

func (s *Server) setAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	field := mux.Vars(r)["field"]

	var (
		change engine.Change
		err    error
	)
	switch {
	case req.Options != nil:
		change, err = s.engine.SetOptions(r.Context(), field, req.Options)
	case req.Value != nil:
		change, err = s.engine.SetAnswer(r.Context(), field, *req.Value)
	default:
		err = StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("%w: value or options required", ErrInvalidBody)}
	}
	s.writeChange(w, change, err)
}

func (s *Server) toggleOption(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	change, err := s.engine.ToggleOption(r.Context(), mux.Vars(r)["field"], req.Option, req.Present)
	s.writeChange(w, change, err)
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	change, err := s.engine.Clear(r.Context())
	s.writeChange(w, change, err)
}

func (s *Server) invokeAction(w http.ResponseWriter, r *http.Request) {
	action := model.ActionName(mux.Vars(r)["action"])
	change, err := s.engine.InvokeAction(r.Context(), action)
	s.writeChange(w, change, err)
}

func (s *Server) progress(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, progressResponse{
		Progress:    s.engine.Progress(),
		ActionLabel: s.engine.ActionLabel(),
	})
}

func (s *Server) recipient(w http.ResponseWriter, _ *http.Request) {
	choice, address, err := s.engine.Recipient()
	resp := recipientResponse{Choice: choice, Address: address}
	if err != nil {
		resp.Status = engine.StatusMessage(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) selectRecipient(w http.ResponseWriter, r *http.Request) {
	var req recipientRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	change, err := s.engine.SelectRecipient(r.Context(), req.Choice, req.Other)
	s.writeChange(w, change, err)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Submit(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) renderReport(w http.ResponseWriter, r *http.Request) {
	id, err := s.engine.SubmissionID(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	_, address, _ := s.engine.Recipient()

	html, err := s.report.Render(report.Input{
		Questionnaire: s.engine.Questionnaire(),
		Answers:       s.engine.Answers(),
		Progress:      s.engine.Progress(),
		SubmissionID:  id,
		Recipient:     address,
		GeneratedAt:   s.now(),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func (s *Server) contract(w http.ResponseWriter, r *http.Request) {
	doc, err := contract.Build(r.Context(), s.engine.Questionnaire(), s.contractInfo)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) writeChange(w http.ResponseWriter, change engine.Change, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, change)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	status := engine.StatusMessage(err)
	if errors.Is(err, ErrInvalidBody) {
		status = http.StatusText(code)
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("code", code), zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.Int("code", code), zap.Error(err))
	}
	writeJSON(w, code, errorResponse{Error: err.Error(), Status: status})
}

func decode(r *http.Request, target any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		msg := strings.TrimSpace(err.Error())
		return StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("%w: %s", ErrInvalidBody, msg)}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, value any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(value)
}
