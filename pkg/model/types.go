package model

import "strings"

// FieldKind is the enum of question input kinds.
type FieldKind string

const (
	FieldKindShortText    FieldKind = "short_text"
	FieldKindLongText     FieldKind = "long_text"
	FieldKindSingleChoice FieldKind = "single_choice"
	FieldKindMultiChoice  FieldKind = "multi_choice"
	FieldKindSelectOne    FieldKind = "select_one"
	FieldKindDate         FieldKind = "date"
	FieldKindNumber       FieldKind = "number"
	FieldKindAction       FieldKind = "action"
)

// ActionName identifies the behaviour bound to an action field.
type ActionName string

// ActionAddTransport appends one more transport section.
const ActionAddTransport ActionName = "add_transport"

const (
	// GroupHotel marks sections synthesised from the hotel template.
	GroupHotel = "hotel"
	// GroupTransport marks sections synthesised from the transport template.
	GroupTransport = "transport"
)

const (
	HintMin  = "min"
	HintMax  = "max"
	HintStep = "step"
)

// Field models a single question inside a section. Struct fields carry JSON
// tags so adapters can serialise the questionnaire directly.
type Field struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Kind        FieldKind         `json:"kind"`
	Options     []string          `json:"options,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Optional    bool              `json:"optional,omitempty"`
	Action      ActionName        `json:"action,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

// IsAction reports whether the field triggers an action instead of holding an
// answer.
func (f Field) IsAction() bool {
	return f.Kind == FieldKindAction
}

// IsMulti reports whether answers for the field are option sets.
func (f Field) IsMulti() bool {
	return f.Kind == FieldKindMultiChoice
}

// HasOptions reports whether the kind draws its answer from Options.
func (f Field) HasOptions() bool {
	switch f.Kind {
	case FieldKindSingleChoice, FieldKindMultiChoice, FieldKindSelectOne:
		return true
	default:
		return false
	}
}

// Section groups fields under a card. Repeatable sections carry their Group
// and 1-based Index; NameField, when set, names the field whose answer
// replaces Title for display.
type Section struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Group       string  `json:"group,omitempty"`
	Index       int     `json:"index,omitempty"`
	NameField   string  `json:"nameField,omitempty"`
	Fields      []Field `json:"fields"`
}

// Repeatable reports whether the section was synthesised from a template.
func (s Section) Repeatable() bool {
	return s.Group != ""
}

// Questionnaire is the ordered list of sections produced by one schema build.
type Questionnaire struct {
	Sections []Section `json:"sections"`
}

// Section returns the section with the given id.
func (q Questionnaire) Section(id string) (Section, bool) {
	id = strings.TrimSpace(id)
	for _, section := range q.Sections {
		if section.ID == id {
			return section, true
		}
	}
	return Section{}, false
}

// Field returns the field with the given id along with its owning section.
func (q Questionnaire) Field(id string) (Field, Section, bool) {
	for _, section := range q.Sections {
		for _, field := range section.Fields {
			if field.ID == id {
				return field, section, true
			}
		}
	}
	return Field{}, Section{}, false
}

// Fields returns every field in questionnaire order.
func (q Questionnaire) Fields() []Field {
	var out []Field
	for _, section := range q.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// SectionsInGroup returns the repeatable sections belonging to group.
func (q Questionnaire) SectionsInGroup(group string) []Section {
	var out []Section
	for _, section := range q.Sections {
		if section.Group == group {
			out = append(out, section)
		}
	}
	return out
}

// FindAction returns the first field bound to the named action.
func (q Questionnaire) FindAction(action ActionName) (Field, bool) {
	for _, section := range q.Sections {
		for _, field := range section.Fields {
			if field.IsAction() && field.Action == action {
				return field, true
			}
		}
	}
	return Field{}, false
}
