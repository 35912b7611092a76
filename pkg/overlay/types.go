package overlay

import (
	"regexp"
	"strings"
)

// IndexPlaceholder is replaced with the 1-based section index when an
// override targets a repeatable section or field.
const IndexPlaceholder = "{n}"

// Store keeps the parsed overrides. It is safe for concurrent readers when
// treated as immutable after construction.
type Store struct {
	sections map[string]SectionOverride
	fields   map[string]FieldOverride
}

// SectionOverride replaces a section's title or description.
type SectionOverride struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Source      string `json:"-" yaml:"-"`
}

// FieldOverride replaces a field's presentation. Optional, when set, flips
// the explicit optional flag; it cannot turn action fields into answers.
type FieldOverride struct {
	Label       string   `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	Optional    *bool    `json:"optional,omitempty" yaml:"optional,omitempty"`
	Source      string   `json:"-" yaml:"-"`
}

var repeatableID = regexp.MustCompile(`^(hotel|transport)_(\d+)(_.*)?$`)

// TemplateKey rewrites the index of a repeatable id into the placeholder
// form ("hotel_3_rating" -> "hotel_{n}_rating"). Other ids are returned
// trimmed and unchanged.
func TemplateKey(id string) string {
	trimmed := strings.TrimSpace(id)
	match := repeatableID.FindStringSubmatch(trimmed)
	if match == nil {
		return trimmed
	}
	return match[1] + "_" + IndexPlaceholder + match[3]
}
