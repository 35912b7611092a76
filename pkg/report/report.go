package report

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-tripsurvey/pkg/answers"
	"github.com/goliatone/go-tripsurvey/pkg/completion"
	"github.com/goliatone/go-tripsurvey/pkg/model"
	"github.com/goliatone/go-tripsurvey/pkg/schema"
)

// DefaultTemplate is the embedded report template name.
const DefaultTemplate = "report.html"

// DefaultTitle heads the report when no title is configured.
const DefaultTitle = "BTY trip report"

//go:embed templates/*.html
var embedded embed.FS

// Input is everything a report is rendered from.
type Input struct {
	Questionnaire model.Questionnaire
	Answers       answers.Reader
	Progress      completion.Report
	SubmissionID  string
	Recipient     string
	GeneratedAt   time.Time
}

// View is the template context.
type View struct {
	Title        string
	GeneratedAt  string
	SubmissionID string
	Recipient    string
	Percent      int
	Required     int
	Answered     int
	Final        bool
	Sections     []SectionView
}

// SectionView is one rendered section.
type SectionView struct {
	ID          string
	Title       string
	Description string
	Complete    bool
	Fields      []FieldView
}

// FieldView is one rendered question. HTML is set for long-text answers
// and is already sanitised.
type FieldView struct {
	ID     string
	Label  string
	Answer string
	HTML   string
}

// Renderer renders HTML answer reports.
type Renderer struct {
	title    string
	name     string
	set      *pongo2.TemplateSet
	markdown *Markdown

	mu       sync.Mutex
	template *pongo2.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTitle overrides the report heading.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			r.title = trimmed
		}
	}
}

// WithTemplates loads the template name from files instead of the embedded
// default.
func WithTemplates(files fs.FS, name string) Option {
	return func(r *Renderer) {
		if files == nil || strings.TrimSpace(name) == "" {
			return
		}
		r.set = pongo2.NewSet("tripsurvey-report-custom", pongo2.NewFSLoader(files))
		r.name = strings.TrimSpace(name)
	}
}

// TemplatesFS exposes the embedded templates so callers can extend them and
// pass the result back through WithTemplates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return embedded
	}
	return sub
}

// New constructs a renderer backed by the embedded template.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		title:    DefaultTitle,
		name:     DefaultTemplate,
		set:      pongo2.NewSet("tripsurvey-report", pongo2.NewFSLoader(TemplatesFS())),
		markdown: NewMarkdown(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Render produces the HTML report.
func (r *Renderer) Render(input Input) ([]byte, error) {
	tmpl, err := r.load()
	if err != nil {
		return nil, err
	}

	view, err := r.View(input)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context{"report": view}, &buf); err != nil {
		return nil, fmt.Errorf("report: execute %s: %w", r.name, err)
	}
	return buf.Bytes(), nil
}

// View builds the template context. Action fields are omitted and section
// titles follow the entered hotel names.
func (r *Renderer) View(input Input) (View, error) {
	generated := input.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	view := View{
		Title:        r.title,
		GeneratedAt:  generated.UTC().Format("2 Jan 2006 15:04 MST"),
		SubmissionID: input.SubmissionID,
		Recipient:    input.Recipient,
		Percent:      input.Progress.Percent,
		Required:     input.Progress.Required,
		Answered:     input.Progress.Answered,
		Final:        input.Progress.RequiredComplete,
	}

	for _, section := range input.Questionnaire.Sections {
		status, _ := input.Progress.Section(section.ID)
		sectionView := SectionView{
			ID:          section.ID,
			Title:       schema.DisplayTitle(section, input.Answers),
			Description: section.Description,
			Complete:    status.Complete,
		}
		for _, field := range section.Fields {
			if field.IsAction() {
				continue
			}
			fieldView, err := r.fieldView(field, input.Answers)
			if err != nil {
				return View{}, err
			}
			sectionView.Fields = append(sectionView.Fields, fieldView)
		}
		view.Sections = append(view.Sections, sectionView)
	}
	return view, nil
}

func (r *Renderer) fieldView(field model.Field, reader answers.Reader) (FieldView, error) {
	out := FieldView{ID: field.ID, Label: field.Label}
	if reader == nil {
		return out, nil
	}
	value, ok := reader.Get(field.ID)
	if !ok {
		return out, nil
	}
	out.Answer = value.String()
	if field.Kind == model.FieldKindLongText && out.Answer != "" {
		html, err := r.markdown.Render(out.Answer)
		if err != nil {
			return FieldView{}, fmt.Errorf("report: field %s: %w", field.ID, err)
		}
		out.HTML = html
	}
	return out, nil
}

func (r *Renderer) load() (*pongo2.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.template != nil {
		return r.template, nil
	}
	if r.set == nil {
		return nil, errors.New("report: template set is not configured")
	}
	tmpl, err := r.set.FromFile(r.name)
	if err != nil {
		return nil, fmt.Errorf("report: load template %q: %w", r.name, err)
	}
	r.template = tmpl
	return tmpl, nil
}
