package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-tripsurvey/pkg/answers"
	"github.com/goliatone/go-tripsurvey/pkg/completion"
	"github.com/goliatone/go-tripsurvey/pkg/model"
	"github.com/goliatone/go-tripsurvey/pkg/payload"
	"github.com/goliatone/go-tripsurvey/pkg/persistence"
	"github.com/goliatone/go-tripsurvey/pkg/schema"
	"github.com/goliatone/go-tripsurvey/pkg/transport"
)

// Action labels for the submit affordance.
const (
	ActionSubmitFinal = "Submit Full Survey"
	ActionSave        = "Save"
)

// Change describes the effect of a mutation.
type Change struct {
	Field             string            `json:"field,omitempty"`
	Changed           bool              `json:"changed"`
	Regenerated       bool              `json:"regenerated"`
	RelabeledSections []string          `json:"relabeledSections,omitempty"`
	Progress          completion.Report `json:"progress"`
}

// Result describes a completed submission.
type Result struct {
	Envelope payload.Envelope `json:"envelope"`
	Final    bool             `json:"final"`
	Status   string           `json:"status"`
}

// Engine owns one survey session: the answer store, the questionnaire built
// from it and the gateways it persists to and submits through. An Engine is
// not safe for concurrent use; adapters serving several callers must
// serialise access.
type Engine struct {
	store         *answers.Store
	questionnaire model.Questionnaire
	gateway       persistence.Gateway
	sender        transport.Sender
	router        payload.Router
	schemaOptions []schema.Option
	logger        *zap.Logger
	now           func() time.Time
}

// New loads the persisted answers and builds the initial questionnaire.
// Unreadable state is logged and replaced by an empty store. A nil sender
// makes every submission fail with transport.ErrMissingEndpoint.
func New(ctx context.Context, gateway persistence.Gateway, sender transport.Sender, options ...Option) (*Engine, error) {
	if gateway == nil {
		return nil, ErrGatewayRequired
	}

	e := &Engine{
		gateway: gateway,
		sender:  sender,
		router:  payload.NewRouter("", nil),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}

	store, err := gateway.Load(ctx)
	if err != nil {
		e.logger.Warn("discarding unreadable answers", zap.Error(err))
		store = answers.New()
	}
	e.store = store
	e.rebuild()

	e.logger.Debug("engine ready",
		zap.Int("answers", e.store.Len()),
		zap.Int("sections", len(e.questionnaire.Sections)))
	return e, nil
}

// Questionnaire returns the current questionnaire.
func (e *Engine) Questionnaire() model.Questionnaire {
	return e.questionnaire
}

// Answers returns a copy of the answer store.
func (e *Engine) Answers() *answers.Store {
	return e.store.Clone()
}

// Router returns the recipient router.
func (e *Engine) Router() payload.Router {
	return e.router
}

// Progress evaluates completion against the current questionnaire.
func (e *Engine) Progress() completion.Report {
	return completion.Evaluate(e.questionnaire, e.store)
}

// ActionLabel returns the label of the submit affordance: a final
// submission once every required field is answered, a save otherwise.
func (e *Engine) ActionLabel() string {
	if e.Progress().RequiredComplete {
		return ActionSubmitFinal
	}
	return ActionSave
}

// DerivedLabel returns the display title of a section: the entered name for
// named repeatable sections, the static title otherwise. Unknown sections
// return "".
func (e *Engine) DerivedLabel(sectionID string) string {
	section, ok := e.questionnaire.Section(sectionID)
	if !ok {
		return ""
	}
	return schema.DisplayTitle(section, e.store)
}

// Flatten returns the collector record for the current questionnaire.
func (e *Engine) Flatten() payload.Record {
	return payload.Flatten(e.questionnaire, e.store)
}

// SubmissionID returns the stable submission identifier.
func (e *Engine) SubmissionID(ctx context.Context) (string, error) {
	id, err := e.gateway.SubmissionID(ctx)
	if err != nil {
		return "", fmt.Errorf("engine: submission id: %w", err)
	}
	return id, nil
}

// SetAnswer stores a scalar answer; an empty value clears it. Writing a
// count field regenerates the questionnaire before returning.
func (e *Engine) SetAnswer(ctx context.Context, fieldID, value string) (Change, error) {
	field, err := e.answerField(fieldID)
	if err != nil {
		return Change{}, err
	}
	if field.IsMulti() {
		return Change{}, fmt.Errorf("%w: %s is multi-choice", ErrKindMismatch, fieldID)
	}
	changed := e.store.Set(field.ID, value)
	return e.commit(ctx, field.ID, changed)
}

// ToggleOption adds or removes one option of a multi-choice answer.
func (e *Engine) ToggleOption(ctx context.Context, fieldID, option string, present bool) (Change, error) {
	field, err := e.answerField(fieldID)
	if err != nil {
		return Change{}, err
	}
	if !field.IsMulti() {
		return Change{}, fmt.Errorf("%w: %s is not multi-choice", ErrKindMismatch, fieldID)
	}
	changed := e.store.Toggle(field.ID, option, present)
	return e.commit(ctx, field.ID, changed)
}

// SetOptions replaces the selection of a multi-choice answer.
func (e *Engine) SetOptions(ctx context.Context, fieldID string, options []string) (Change, error) {
	field, err := e.answerField(fieldID)
	if err != nil {
		return Change{}, err
	}
	if !field.IsMulti() {
		return Change{}, fmt.Errorf("%w: %s is not multi-choice", ErrKindMismatch, fieldID)
	}
	changed := e.store.SetOptions(field.ID, options)
	return e.commit(ctx, field.ID, changed)
}

// InvokeAction runs the named action field behaviour.
func (e *Engine) InvokeAction(ctx context.Context, action model.ActionName) (Change, error) {
	switch action {
	case model.ActionAddTransport:
		return e.AppendTransport(ctx)
	default:
		return Change{}, fmt.Errorf("%w %q", ErrUnknownAction, action)
	}
}

// AppendTransport increments the transport count (capped at
// schema.MaxTransports) and regenerates. Existing transport answers keep
// their ids.
func (e *Engine) AppendTransport(ctx context.Context) (Change, error) {
	next, grew := schema.NextTransportCount(e.store)
	changed := e.store.Set(schema.TransportCountField, strconv.Itoa(next))
	if !grew {
		e.logger.Debug("transport count at cap", zap.Int("max", schema.MaxTransports))
	}
	return e.commit(ctx, schema.TransportCountField, changed)
}

// Clear drops every answer and regenerates. The submission id is kept.
func (e *Engine) Clear(ctx context.Context) (Change, error) {
	changed := e.store.Len() > 0
	e.store.Clear()
	e.rebuild()
	change := Change{Changed: changed, Regenerated: true, Progress: e.Progress()}
	if err := e.save(ctx); err != nil {
		return change, err
	}
	e.logger.Info("answers cleared")
	return change, nil
}

// SelectRecipient records the routing selection. The free-text address is
// only kept for the "other" choice. Validation happens at submit time.
func (e *Engine) SelectRecipient(ctx context.Context, choice, other string) (Change, error) {
	choice = strings.TrimSpace(choice)
	other = strings.TrimSpace(other)
	if choice != payload.OtherRecipient {
		other = ""
	}
	changed := e.store.Set(payload.ChoiceField, choice)
	if e.store.Set(payload.EmailField, other) {
		changed = true
	}
	return e.commit(ctx, payload.ChoiceField, changed)
}

// Recipient returns the stored selection and the address it resolves to.
func (e *Engine) Recipient() (choice, address string, err error) {
	choice = e.store.Text(payload.ChoiceField)
	address, err = e.router.Resolve(choice, e.store.Text(payload.EmailField))
	return choice, address, err
}

// Submit sends the flattened answers to the collector. A submission is
// final when every required field is answered; a final submission without
// a valid recipient is rejected with a *ValidationError before any send.
// Collector failures return a *TransportError; the answers are kept either
// way.
func (e *Engine) Submit(ctx context.Context) (Result, error) {
	if e.sender == nil {
		return Result{}, transportError(transport.ErrMissingEndpoint)
	}
	if endpoint, ok := e.sender.(interface{ Endpoint() string }); ok && strings.TrimSpace(endpoint.Endpoint()) == "" {
		return Result{}, transportError(transport.ErrMissingEndpoint)
	}

	final := e.Progress().RequiredComplete
	choice, address, recipientErr := e.Recipient()
	if final && recipientErr != nil {
		e.logger.Info("final submission rejected", zap.Error(recipientErr))
		return Result{}, validationError(recipientErr, e.router.DomainSuffix)
	}

	id, err := e.SubmissionID(ctx)
	if err != nil {
		return Result{}, err
	}

	envelope := payload.NewEnvelope(id, e.now(), e.Flatten(), choice, address, final)
	if err := e.sender.Send(ctx, envelope); err != nil {
		e.logger.Warn("submission failed",
			zap.String("submission_id", id),
			zap.Bool("final", final),
			zap.Error(err))
		return Result{}, transportError(err)
	}

	status := StatusSaved
	if final {
		status = StatusSubmitted
	}
	e.logger.Info("submission sent",
		zap.String("submission_id", id),
		zap.Bool("final", final),
		zap.Int("columns", len(envelope.Data)))
	return Result{Envelope: envelope, Final: final, Status: status}, nil
}

func (e *Engine) answerField(fieldID string) (model.Field, error) {
	fieldID = strings.TrimSpace(fieldID)
	field, _, ok := e.questionnaire.Field(fieldID)
	if !ok && schema.IsCountField(fieldID) {
		return model.Field{ID: fieldID, Kind: model.FieldKindNumber}, nil
	}
	if !ok {
		return model.Field{}, fmt.Errorf("%w %q", ErrUnknownField, fieldID)
	}
	if field.IsAction() {
		return model.Field{}, fmt.Errorf("%w: %s", ErrActionField, fieldID)
	}
	return field, nil
}

// commit regenerates when a count field was written, collects relabeled
// sections and persists. A failed save keeps the in-memory edit.
func (e *Engine) commit(ctx context.Context, fieldID string, changed bool) (Change, error) {
	change := Change{Field: fieldID, Changed: changed}

	if changed && schema.IsCountField(fieldID) {
		e.rebuild()
		change.Regenerated = true
	}
	if sectionID, ok := schema.SectionForNameField(fieldID); ok && changed {
		if section, found := e.questionnaire.Section(sectionID); found && section.NameField == fieldID {
			change.RelabeledSections = append(change.RelabeledSections, sectionID)
		}
	}
	change.Progress = e.Progress()

	if !changed {
		return change, nil
	}
	if err := e.save(ctx); err != nil {
		return change, err
	}
	return change, nil
}

func (e *Engine) save(ctx context.Context) error {
	if err := e.gateway.Save(ctx, e.store); err != nil {
		e.logger.Error("saving answers failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return nil
}

func (e *Engine) rebuild() {
	e.questionnaire = schema.BuildFrom(e.store, e.schemaOptions...)
}
