package schema

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-tripsurvey/pkg/answers"
	"github.com/goliatone/go-tripsurvey/pkg/model"
	"github.com/goliatone/go-tripsurvey/pkg/overlay"
)

// DefaultTourCodes populates the tour code select when no catalogue is
// configured.
var DefaultTourCodes = []string{"TBC"}

// Option configures a schema build.
type Option func(*config)

type config struct {
	tourCodes []string
	overlay   *overlay.Store
}

// WithTourCodes replaces the options offered by the tour code select. Empty
// entries are ignored; an empty list keeps the defaults.
func WithTourCodes(codes []string) Option {
	return func(cfg *config) {
		var clean []string
		for _, code := range codes {
			if trimmed := strings.TrimSpace(code); trimmed != "" {
				clean = append(clean, trimmed)
			}
		}
		if len(clean) > 0 {
			cfg.tourCodes = clean
		}
	}
}

// WithOverlay applies title, label and option overrides after generation.
func WithOverlay(store *overlay.Store) Option {
	return func(cfg *config) {
		cfg.overlay = store
	}
}

func newConfig(options []Option) config {
	cfg := config{tourCodes: cloneStrings(DefaultTourCodes)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// BuildFrom resolves the repeat counts from reader and builds the
// questionnaire.
func BuildFrom(reader answers.Reader, options ...Option) model.Questionnaire {
	return Build(CountsFrom(reader), options...)
}

// Build expands the question template into the ordered section list: the
// prologue, counts.Hotels hotel sections, counts.Transports transport
// sections (the last carrying the add-transport action) and the epilogue.
// Counts are clamped into their valid ranges. Build is deterministic and
// allocates fresh descriptors on every call.
func Build(counts Counts, options ...Option) model.Questionnaire {
	cfg := newConfig(options)
	hotels := clamp(counts.Hotels, MaxHotels)
	transports := clamp(counts.Transports, MaxTransports)

	sections := make([]model.Section, 0, 12+hotels+transports)
	sections = append(sections, prologue(cfg)...)
	for n := 1; n <= hotels; n++ {
		sections = append(sections, hotelSection(n))
	}
	for n := 1; n <= transports; n++ {
		sections = append(sections, transportSection(n, n == transports))
	}
	sections = append(sections, epilogue()...)

	if cfg.overlay != nil && !cfg.overlay.Empty() {
		for i := range sections {
			sections[i] = applyOverlay(sections[i], cfg.overlay)
		}
	}

	return model.Questionnaire{Sections: sections}
}

// DisplayTitle returns the label shown for a section: the entered entity
// name when the section has a name field holding an answer, the static title
// otherwise.
func DisplayTitle(section model.Section, reader answers.Reader) string {
	if section.NameField != "" {
		if name := strings.TrimSpace(scalar(reader, section.NameField)); name != "" {
			return name
		}
	}
	return section.Title
}

// SectionForNameField returns the id of the section a name field belongs to.
func SectionForNameField(fieldID string) (string, bool) {
	sectionID, ok := strings.CutSuffix(fieldID, "_name")
	if !ok || sectionID == "" {
		return "", false
	}
	return sectionID, true
}

func applyOverlay(section model.Section, store *overlay.Store) model.Section {
	if override, ok := store.Section(section.ID); ok {
		if override.Title != "" {
			section.Title = expandIndex(override.Title, section.Index)
		}
		if override.Description != "" {
			section.Description = expandIndex(override.Description, section.Index)
		}
	}
	for i, field := range section.Fields {
		override, ok := store.Field(field.ID)
		if !ok {
			continue
		}
		if override.Label != "" {
			field.Label = expandIndex(override.Label, section.Index)
		}
		if override.Placeholder != "" {
			field.Placeholder = override.Placeholder
		}
		if len(override.Options) > 0 && field.HasOptions() {
			field.Options = cloneStrings(override.Options)
		}
		if override.Optional != nil && !field.IsAction() {
			field.Optional = *override.Optional
		}
		section.Fields[i] = field
	}
	return section
}

func expandIndex(text string, index int) string {
	if index <= 0 {
		return text
	}
	return strings.ReplaceAll(text, overlay.IndexPlaceholder, strconv.Itoa(index))
}

func clamp(n, max int) int {
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}
