package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-tripsurvey/pkg/engine"
	"github.com/goliatone/go-tripsurvey/pkg/model"
	"github.com/goliatone/go-tripsurvey/pkg/payload"
)

const dateLayout = "2006-01-02"

// Runner walks the questionnaire in the terminal and writes every answer
// through the engine as soon as it is given.
type Runner struct {
	engine   *engine.Engine
	driver   PromptDriver
	out      io.Writer
	sections map[string]bool
	submit   bool
	theme    Theme
	logger   *zap.Logger
}

// New constructs a runner with the survey prompt driver.
func New(eng *engine.Engine, options ...Option) (*Runner, error) {
	if eng == nil {
		return nil, ErrEngineRequired
	}
	r := &Runner{
		engine:   eng,
		sections: make(map[string]bool),
		submit:   true,
		theme:    DefaultTheme,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Run prompts every field of every selected section in questionnaire order.
// The questionnaire is re-read after each answer, so sections added by a
// count change or the add-transport action are visited in the same walk.
func (r *Runner) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}

	for index := 0; index < len(r.engine.Questionnaire().Sections); index++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		section := r.engine.Questionnaire().Sections[index]
		if !r.selected(section) {
			continue
		}
		if err := r.runSection(ctx, section.ID); err != nil {
			return err
		}
	}

	if !r.submit {
		return nil
	}
	return r.finish(ctx)
}

func (r *Runner) selected(section model.Section) bool {
	if len(r.sections) == 0 {
		return true
	}
	return r.sections[section.ID] || (section.Group != "" && r.sections[section.Group])
}

func (r *Runner) runSection(ctx context.Context, sectionID string) error {
	progress := r.engine.Progress()
	r.info(ctx, r.theme.SectionPrefix+fmt.Sprintf("%s (%d%% complete)", r.engine.DerivedLabel(sectionID), progress.Percent))

	for position := 0; ; position++ {
		section, ok := r.engine.Questionnaire().Section(sectionID)
		if !ok || position >= len(section.Fields) {
			return nil
		}
		if err := r.promptField(ctx, section.Fields[position]); err != nil {
			return err
		}
	}
}

func (r *Runner) promptField(ctx context.Context, field model.Field) error {
	switch field.Kind {
	case model.FieldKindAction:
		return r.promptAction(ctx, field)
	case model.FieldKindMultiChoice:
		return r.promptMulti(ctx, field)
	case model.FieldKindSingleChoice, model.FieldKindSelectOne:
		return r.promptChoice(ctx, field)
	case model.FieldKindLongText:
		return r.promptLongText(ctx, field)
	default:
		return r.promptInput(ctx, field)
	}
}

func (r *Runner) promptInput(ctx context.Context, field model.Field) error {
	current := r.current(field.ID)
	response, err := r.driver.Input(ctx, InputConfig{
		Message:   field.Label,
		Default:   current,
		Help:      field.Placeholder,
		Validator: validatorFor(field),
	})
	if err != nil {
		return err
	}
	return r.set(ctx, field.ID, strings.TrimSpace(response))
}

func (r *Runner) promptLongText(ctx context.Context, field model.Field) error {
	response, err := r.driver.TextArea(ctx, TextAreaConfig{
		Message: field.Label,
		Default: r.current(field.ID),
		Help:    field.Placeholder,
	})
	if err != nil {
		return err
	}
	return r.set(ctx, field.ID, strings.TrimRight(response, "\n"))
}

func (r *Runner) promptChoice(ctx context.Context, field model.Field) error {
	options := append([]string{SkipOption}, field.Options...)
	defaultIndex := 0
	if current := r.current(field.ID); current != "" {
		if idx := indexOf(field.Options, current); idx >= 0 {
			defaultIndex = idx + 1
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      field.Label,
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         field.Placeholder,
		PageSize:     10,
	})
	if err != nil {
		return err
	}
	if idx <= 0 || idx >= len(options) {
		return nil
	}
	return r.set(ctx, field.ID, options[idx])
}

func (r *Runner) promptMulti(ctx context.Context, field model.Field) error {
	var defaults []int
	if value, ok := r.engine.Answers().Get(field.ID); ok {
		defaults = indicesOf(field.Options, value.Selected())
	}

	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  field.Label,
		Options:  field.Options,
		Defaults: defaults,
		Help:     field.Placeholder,
		PageSize: 10,
	})
	if err != nil {
		return err
	}

	if _, err := r.engine.SetOptions(ctx, field.ID, defaultsFromIndices(field.Options, indices)); err != nil {
		return r.report(ctx, err)
	}
	return nil
}

func (r *Runner) promptAction(ctx context.Context, field model.Field) error {
	add, err := r.driver.Confirm(ctx, ConfirmConfig{Message: field.Label + "?"})
	if err != nil {
		return err
	}
	if !add {
		return nil
	}
	if _, err := r.engine.InvokeAction(ctx, field.Action); err != nil {
		return r.report(ctx, err)
	}
	return nil
}

// finish asks for the routing recipient and offers the submit action.
func (r *Runner) finish(ctx context.Context) error {
	if err := r.promptRecipient(ctx); err != nil {
		return err
	}

	label := r.engine.ActionLabel()
	progress := r.engine.Progress()
	confirmed, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("%s now? (%d%% complete)", label, progress.Percent),
		Default: progress.RequiredComplete,
	})
	if err != nil {
		return err
	}
	if !confirmed {
		r.info(ctx, r.theme.InfoPrefix+"Answers saved locally.")
		return nil
	}

	r.info(ctx, r.theme.InfoPrefix+engine.StatusSubmitting)
	result, err := r.engine.Submit(ctx)
	if err != nil {
		r.info(ctx, r.theme.ErrorPrefix+engine.StatusMessage(err))
		return err
	}
	r.info(ctx, r.theme.InfoPrefix+result.Status)
	return nil
}

func (r *Runner) promptRecipient(ctx context.Context) error {
	router := r.engine.Router()
	choice, _, _ := r.engine.Recipient()

	options := []string{SkipOption}
	values := []string{""}
	for _, recipient := range router.Recipients {
		options = append(options, recipient.Label())
		values = append(values, recipient.Email)
	}
	options = append(options, OtherRecipientOption)
	values = append(values, payload.OtherRecipient)

	defaultIndex := 0
	if idx := indexOf(values, choice); idx > 0 {
		defaultIndex = idx
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Who should receive this report?",
		Options:      options,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return err
	}
	if idx <= 0 || idx >= len(values) {
		return nil
	}

	other := ""
	if values[idx] == payload.OtherRecipient {
		other, err = r.driver.Input(ctx, InputConfig{
			Message: "Recipient address",
			Default: r.engine.Answers().Text(payload.EmailField),
			Help:    "Must end in " + router.DomainSuffix,
		})
		if err != nil {
			return err
		}
	}
	if _, err := r.engine.SelectRecipient(ctx, values[idx], other); err != nil {
		return r.report(ctx, err)
	}
	return nil
}

func (r *Runner) set(ctx context.Context, fieldID, value string) error {
	if _, err := r.engine.SetAnswer(ctx, fieldID, value); err != nil {
		return r.report(ctx, err)
	}
	return nil
}

// report surfaces save failures without stopping the walk; the edit is kept
// in memory by the engine. Other errors end the run.
func (r *Runner) report(ctx context.Context, err error) error {
	if errors.Is(err, engine.ErrSaveFailed) {
		r.logger.Warn("answer not persisted", zap.Error(err))
		r.info(ctx, r.theme.ErrorPrefix+engine.StatusMessage(err))
		return nil
	}
	return err
}

func (r *Runner) current(fieldID string) string {
	return r.engine.Answers().Text(fieldID)
}

func (r *Runner) info(ctx context.Context, msg string) {
	if err := r.driver.Info(ctx, msg); err != nil {
		r.logger.Debug("info line dropped", zap.Error(err))
	}
}

func validatorFor(field model.Field) func(string) error {
	switch field.Kind {
	case model.FieldKindNumber:
		return func(raw string) error {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				return nil
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("enter a whole number")
			}
			if min, ok := hintInt(field, model.HintMin); ok && n < min {
				return fmt.Errorf("minimum is %d", min)
			}
			if max, ok := hintInt(field, model.HintMax); ok && n > max {
				return fmt.Errorf("maximum is %d", max)
			}
			return nil
		}
	case model.FieldKindDate:
		return func(raw string) error {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				return nil
			}
			if _, err := time.Parse(dateLayout, raw); err != nil {
				return fmt.Errorf("use YYYY-MM-DD")
			}
			return nil
		}
	default:
		return nil
	}
}

func hintInt(field model.Field, key string) (int, bool) {
	raw, ok := field.UIHints[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}
