package answers

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Reader is the read-only view of an answer store used by the pure
// schema, completion and payload functions.
type Reader interface {
	Get(id string) (Value, bool)
}

// Store maps field ids to answers. Unanswered fields are absent: the store
// never holds an empty scalar or an empty option set. A Store is not safe for
// concurrent use; owners serialise access.
type Store struct {
	values map[string]Value
}

var _ Reader = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[string]Value)}
}

// FromMap seeds a store from the provided values, skipping empty entries.
func FromMap(values map[string]Value) *Store {
	store := New()
	for id, value := range values {
		id = strings.TrimSpace(id)
		if id == "" || value.Empty() {
			continue
		}
		store.values[id] = value
	}
	return store
}

// Get returns the stored value for id.
func (s *Store) Get(id string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	value, ok := s.values[id]
	return value, ok
}

// Text returns the scalar answer for id, or "" when absent or multi-valued.
func (s *Store) Text(id string) string {
	value, _ := s.Get(id)
	return value.Scalar()
}

// Has reports whether id holds an answer.
func (s *Store) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Set stores a scalar answer. An empty value removes the key. It reports
// whether the stored state changed.
func (s *Store) Set(id, value string) bool {
	s.ensure()
	if value == "" {
		return s.Delete(id)
	}
	next := Text(value)
	if current, ok := s.values[id]; ok && current.Equal(next) {
		return false
	}
	s.values[id] = next
	return true
}

// SetOptions replaces the option set for id. An empty set removes the key.
func (s *Store) SetOptions(id string, options []string) bool {
	s.ensure()
	next := Options(options...)
	if next.Empty() {
		return s.Delete(id)
	}
	if current, ok := s.values[id]; ok && current.Equal(next) {
		return false
	}
	s.values[id] = next
	return true
}

// Toggle adds (present=true) or removes an option from the set stored for id.
// Sets keep insertion order, so an option removed and added again moves to
// the end. Removing the last option removes the key. A scalar previously
// stored under id is replaced by the set.
func (s *Store) Toggle(id, option string, present bool) bool {
	s.ensure()
	if option == "" {
		return false
	}
	current := s.values[id]
	selected := current.Selected()

	if present {
		if current.IsMulti() && current.Contains(option) {
			return false
		}
		return s.SetOptions(id, append(selected, option))
	}

	if !current.IsMulti() || !current.Contains(option) {
		return false
	}
	remaining := selected[:0]
	for _, existing := range selected {
		if existing != option {
			remaining = append(remaining, existing)
		}
	}
	return s.SetOptions(id, remaining)
}

// Delete removes id, reporting whether it was present.
func (s *Store) Delete(id string) bool {
	if s == nil || s.values == nil {
		return false
	}
	if _, ok := s.values[id]; !ok {
		return false
	}
	delete(s.values, id)
	return true
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.values = make(map[string]Value)
}

// Len reports the number of answered ids.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Keys returns the answered ids sorted for deterministic iteration.
func (s *Store) Keys() []string {
	if s == nil || len(s.values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the stored values.
func (s *Store) Snapshot() map[string]Value {
	out := make(map[string]Value, s.Len())
	if s == nil {
		return out
	}
	for key, value := range s.values {
		out[key] = value
	}
	return out
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	return FromMap(s.Snapshot())
}

// MarshalJSON encodes the store as a flat JSON object.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// UnmarshalJSON replaces the store contents with the decoded object. Empty
// values are dropped so the absent-means-unanswered rule holds after a load.
func (s *Store) UnmarshalJSON(data []byte) error {
	var raw map[string]Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("answers: decode store: %w", err)
	}
	*s = *FromMap(raw)
	return nil
}

func (s *Store) ensure() {
	if s.values == nil {
		s.values = make(map[string]Value)
	}
}
