package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-tripsurvey/pkg/answers"
)

const (
	// AnswersKey holds the JSON encoded answer store.
	AnswersKey = "explore_trip_survey_answers"
	// SubmissionIDKey holds the stable submission identifier.
	SubmissionIDKey = "explore_trip_survey_submission_id"
)

var (
	// ErrCorrupt wraps decode failures of persisted state.
	ErrCorrupt = errors.New("persistence: stored answers are corrupt")
	// ErrUnknownDriver is returned by Open for unsupported drivers.
	ErrUnknownDriver = errors.New("persistence: unknown driver")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("persistence: store closed")
)

// Gateway loads and saves the answer store and owns the submission id.
type Gateway interface {
	// Load returns the persisted store. Missing state yields an empty store
	// and a nil error; unreadable state returns an error wrapping ErrCorrupt
	// or the driver failure.
	Load(ctx context.Context) (*answers.Store, error)
	// Save replaces the persisted store.
	Save(ctx context.Context, store *answers.Store) error
	// SubmissionID returns the identifier, creating it on first access.
	SubmissionID(ctx context.Context) (string, error)
	Close() error
}

// backend is the key/value surface each driver implements.
type backend interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
	put(ctx context.Context, key string, value []byte) error
	// putIfAbsent stores value unless key exists and returns the value that
	// is stored afterwards.
	putIfAbsent(ctx context.Context, key string, value []byte) ([]byte, error)
	close() error
}

// Store implements Gateway on top of a driver backend.
type Store struct {
	driver  string
	backend backend
	newID   func() string
	closed  bool
}

var _ Gateway = (*Store)(nil)

func newStore(driver string, b backend) *Store {
	return &Store{driver: driver, backend: b, newID: uuid.NewString}
}

// Driver reports the driver name backing the store.
func (s *Store) Driver() string {
	return s.driver
}

// Load implements Gateway.
func (s *Store) Load(ctx context.Context) (*answers.Store, error) {
	if s.closed {
		return nil, ErrClosed
	}
	raw, ok, err := s.backend.get(ctx, AnswersKey)
	if err != nil {
		return nil, fmt.Errorf("persistence: %s load: %w", s.driver, err)
	}
	if !ok || len(strings.TrimSpace(string(raw))) == 0 {
		return answers.New(), nil
	}

	store := answers.New()
	if err := json.Unmarshal(raw, store); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return store, nil
}

// Save implements Gateway.
func (s *Store) Save(ctx context.Context, store *answers.Store) error {
	if s.closed {
		return ErrClosed
	}
	if store == nil {
		store = answers.New()
	}
	raw, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("persistence: encode answers: %w", err)
	}
	if err := s.backend.put(ctx, AnswersKey, raw); err != nil {
		return fmt.Errorf("persistence: %s save: %w", s.driver, err)
	}
	return nil
}

// SubmissionID implements Gateway. The identifier is a random UUID created
// once; concurrent first calls agree on a single value.
func (s *Store) SubmissionID(ctx context.Context) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	raw, ok, err := s.backend.get(ctx, SubmissionIDKey)
	if err != nil {
		return "", fmt.Errorf("persistence: %s submission id: %w", s.driver, err)
	}
	if ok && strings.TrimSpace(string(raw)) != "" {
		return strings.TrimSpace(string(raw)), nil
	}

	stored, err := s.backend.putIfAbsent(ctx, SubmissionIDKey, []byte(s.newID()))
	if err != nil {
		return "", fmt.Errorf("persistence: %s submission id: %w", s.driver, err)
	}
	return strings.TrimSpace(string(stored)), nil
}

// Close releases driver resources. It is safe to call more than once.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.backend.close()
}
