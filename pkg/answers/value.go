package answers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value holds either a scalar answer or an ordered, duplicate-free option set.
type Value struct {
	text    string
	options []string
	multi   bool
}

// Text constructs a scalar value.
func Text(text string) Value {
	return Value{text: text}
}

// Options constructs a multi-value from the provided options, dropping empty
// entries and duplicates while keeping first-occurrence order.
func Options(options ...string) Value {
	return Value{options: dedupe(options), multi: true}
}

// IsMulti reports whether the value is an option set.
func (v Value) IsMulti() bool {
	return v.multi
}

// String returns the scalar text, or the options joined with ", " for sets.
func (v Value) String() string {
	if v.multi {
		return strings.Join(v.options, ", ")
	}
	return v.text
}

// Scalar returns the scalar text; it is empty for option sets.
func (v Value) Scalar() string {
	if v.multi {
		return ""
	}
	return v.text
}

// Selected returns a copy of the option set in stored order.
func (v Value) Selected() []string {
	if !v.multi || len(v.options) == 0 {
		return nil
	}
	return append([]string(nil), v.options...)
}

// Contains reports whether option is part of the set.
func (v Value) Contains(option string) bool {
	for _, existing := range v.options {
		if existing == option {
			return true
		}
	}
	return false
}

// Empty reports whether the value carries no answer.
func (v Value) Empty() bool {
	if v.multi {
		return len(v.options) == 0
	}
	return v.text == ""
}

// Equal compares two values, including option order.
func (v Value) Equal(other Value) bool {
	if v.multi != other.multi || v.text != other.text || len(v.options) != len(other.options) {
		return false
	}
	for i := range v.options {
		if v.options[i] != other.options[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes scalars as strings and sets as arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.multi {
		options := v.options
		if options == nil {
			options = []string{}
		}
		return json.Marshal(options)
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON accepts strings, numbers, booleans and string arrays. Numbers
// are accepted because older stores wrote the transport count as a number.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("answers: decode text: %w", err)
		}
		*v = Text(text)
		return nil
	case '[':
		var raw []any
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("answers: decode options: %w", err)
		}
		options := make([]string, 0, len(raw))
		for _, item := range raw {
			if item == nil {
				continue
			}
			options = append(options, scalarString(item))
		}
		*v = Options(options...)
		return nil
	default:
		var scalar any
		if err := json.Unmarshal(trimmed, &scalar); err != nil {
			return fmt.Errorf("answers: decode scalar: %w", err)
		}
		if _, isObject := scalar.(map[string]any); isObject {
			return fmt.Errorf("answers: unsupported object value")
		}
		*v = Text(scalarString(scalar))
		return nil
	}
}

func scalarString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func dedupe(options []string) []string {
	if len(options) == 0 {
		return nil
	}
	out := make([]string, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, option := range options {
		if option == "" {
			continue
		}
		if _, exists := seen[option]; exists {
			continue
		}
		seen[option] = struct{}{}
		out = append(out, option)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
