package contract

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-tripsurvey/pkg/model"
	"github.com/goliatone/go-tripsurvey/pkg/payload"
	"github.com/goliatone/go-tripsurvey/pkg/transport"
)

const (
	// OpenAPIVersion is the document version emitted by Build.
	OpenAPIVersion = "3.0.3"
	// EnvelopeSchema names the component holding the submission envelope.
	EnvelopeSchema = "Envelope"
	// OperationID identifies the collector's submit operation.
	OperationID = "submitSurvey"
	// ColumnOrderExtension lists data columns in questionnaire order.
	ColumnOrderExtension = "x-column-order"

	formMediaType = "application/x-www-form-urlencoded"
	jsonMediaType = "application/json"
)

var (
	// ErrNoEnvelope is returned when a document lacks the envelope component.
	ErrNoEnvelope = errors.New("contract: document has no envelope schema")
	// ErrEmptyDocument is returned by Load for blank input.
	ErrEmptyDocument = errors.New("contract: document payload is empty")
)

// Info describes the collector the contract is written for.
type Info struct {
	Title       string
	Version     string
	Description string
	Endpoint    string
	Path        string
}

func (i Info) normalized() Info {
	if strings.TrimSpace(i.Title) == "" {
		i.Title = "BTY survey collector"
	}
	if strings.TrimSpace(i.Version) == "" {
		i.Version = "1.0.0"
	}
	if strings.TrimSpace(i.Path) == "" {
		i.Path = "/"
	}
	if !strings.HasPrefix(i.Path, "/") {
		i.Path = "/" + i.Path
	}
	return i
}

// Build describes the collector endpoint for the given questionnaire shape:
// one POST accepting the envelope either as the JSON-encoded form field
// "payload" or as a JSON body. Every flattened column is a string property
// of the data object. The document is validated before it is returned.
func Build(ctx context.Context, questionnaire model.Questionnaire, info Info) (*openapi3.T, error) {
	info = info.normalized()

	envelope := envelopeSchema(questionnaire)
	envelopeRef := openapi3.NewSchemaRef("#/components/schemas/"+EnvelopeSchema, envelope)

	form := openapi3.NewObjectSchema().
		WithProperty(transport.FormField, openapi3.NewStringSchema()).
		WithRequired([]string{transport.FormField})
	form.Properties[transport.FormField].Value.Description = "JSON-encoded " + EnvelopeSchema

	formMedia := openapi3.NewMediaType().WithSchema(form)
	formMedia.Encoding = map[string]*openapi3.Encoding{
		transport.FormField: {ContentType: jsonMediaType},
	}

	jsonMedia := &openapi3.MediaType{Schema: envelopeRef}

	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.Content{
			formMediaType: formMedia,
			jsonMediaType: jsonMedia,
		})

	operation := openapi3.NewOperation()
	operation.OperationID = OperationID
	operation.Summary = "Submit or save a BTY survey"
	operation.RequestBody = &openapi3.RequestBodyRef{Value: body}
	operation.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission stored")}),
		openapi3.WithStatus(400, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission rejected")}),
	)

	doc := &openapi3.T{
		OpenAPI: OpenAPIVersion,
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(info.Path, &openapi3.PathItem{Post: operation})),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{EnvelopeSchema: openapi3.NewSchemaRef("", envelope)},
		},
	}
	if endpoint := strings.TrimSpace(info.Endpoint); endpoint != "" {
		doc.Servers = openapi3.Servers{{URL: endpoint}}
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}
	return doc, nil
}

func envelopeSchema(questionnaire model.Questionnaire) *openapi3.Schema {
	columns := payload.Columns(questionnaire)
	data := openapi3.NewObjectSchema()
	data.Description = "Flattened answers keyed by field id; unanswered fields are empty strings"

	order := make([]any, 0, len(columns)+2)
	for _, field := range questionnaire.Fields() {
		if field.IsAction() {
			continue
		}
		data.WithProperty(field.ID, columnSchema(field))
		order = append(order, field.ID)
	}
	data.WithProperty(payload.ChoiceField, openapi3.NewStringSchema())
	data.WithProperty(payload.EmailField, openapi3.NewStringSchema())
	order = append(order, payload.ChoiceField, payload.EmailField)

	required := append(append([]string(nil), columns...), payload.ChoiceField, payload.EmailField)
	data.WithRequired(required)
	data.Extensions = map[string]any{ColumnOrderExtension: order}

	return openapi3.NewObjectSchema().
		WithProperty("submission_id", openapi3.NewUUIDSchema()).
		WithProperty("submitted_at", openapi3.NewDateTimeSchema()).
		WithPropertyRef("data", openapi3.NewSchemaRef("", data)).
		WithProperty("is_final", openapi3.NewBoolSchema()).
		WithProperty("pm_email", openapi3.NewStringSchema()).
		WithRequired([]string{"submission_id", "submitted_at", "data", "is_final", "pm_email"})
}

func columnSchema(field model.Field) *openapi3.Schema {
	schema := openapi3.NewStringSchema()
	schema.Description = field.Label
	switch field.Kind {
	case model.FieldKindSingleChoice, model.FieldKindSelectOne:
		values := make([]any, 0, len(field.Options)+1)
		values = append(values, "")
		for _, option := range field.Options {
			values = append(values, option)
		}
		schema.WithEnum(values...)
	case model.FieldKindMultiChoice:
		schema.Description = field.Label + " (options joined by \"" + payload.MultiValueDelimiter + "\")"
	case model.FieldKindDate:
		schema.Pattern = `^(\d{4}-\d{2}-\d{2})?$`
	}
	return schema
}

// Load parses and validates a contract document in JSON or YAML.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyDocument
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}
	return doc, nil
}

// Columns returns the data columns declared by doc, sorted.
func Columns(doc *openapi3.T) ([]string, error) {
	data, err := dataSchema(doc)
	if err != nil {
		return nil, err
	}
	columns := make([]string, 0, len(data.Properties))
	for name := range data.Properties {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return columns, nil
}

// Drift lists the columns a collector contract and a questionnaire disagree
// on.
type Drift struct {
	Missing []string `json:"missing,omitempty"`
	Extra   []string `json:"extra,omitempty"`
}

// Empty reports whether the contract matches the questionnaire.
func (d Drift) Empty() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0
}

// Compare reports columns the questionnaire would send that doc does not
// declare (Missing) and declared columns it would not send (Extra).
func Compare(doc *openapi3.T, questionnaire model.Questionnaire) (Drift, error) {
	declared, err := Columns(doc)
	if err != nil {
		return Drift{}, err
	}
	have := make(map[string]struct{}, len(declared))
	for _, name := range declared {
		have[name] = struct{}{}
	}

	want := append(payload.Columns(questionnaire), payload.ChoiceField, payload.EmailField)
	wanted := make(map[string]struct{}, len(want))

	var drift Drift
	for _, name := range want {
		wanted[name] = struct{}{}
		if _, ok := have[name]; !ok {
			drift.Missing = append(drift.Missing, name)
		}
	}
	for _, name := range declared {
		if _, ok := wanted[name]; !ok {
			drift.Extra = append(drift.Extra, name)
		}
	}
	sort.Strings(drift.Missing)
	return drift, nil
}

func dataSchema(doc *openapi3.T) (*openapi3.Schema, error) {
	if doc == nil || doc.Components == nil {
		return nil, ErrNoEnvelope
	}
	ref, ok := doc.Components.Schemas[EnvelopeSchema]
	if !ok || ref == nil || ref.Value == nil {
		return nil, ErrNoEnvelope
	}
	data, ok := ref.Value.Properties["data"]
	if !ok || data == nil || data.Value == nil {
		return nil, fmt.Errorf("%w: data property missing", ErrNoEnvelope)
	}
	return data.Value, nil
}
