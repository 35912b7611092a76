package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/goliatone/go-tripsurvey/pkg/answers"
	"github.com/goliatone/go-tripsurvey/pkg/payload"
)

// LoadAnswers reads a JSON answer fixture. Testing helpers fail the test on
// error to keep table setup concise.
func LoadAnswers(t *testing.T, path string) *answers.Store {
	t.Helper()

	store, err := LoadAnswersFromPath(path)
	if err != nil {
		t.Fatalf("load answers: %v", err)
	}
	return store
}

// LoadAnswersFromPath returns the fixture store without requiring testing.T.
// Scalars decode as text answers and arrays as multi-choice answers.
func LoadAnswersFromPath(path string) (*answers.Store, error) {
	if path == "" {
		return nil, errors.New("testsupport: answers path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read answers: %w", err)
	}
	store := answers.New()
	if err := json.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal answers: %w", err)
	}
	return store, nil
}

// CaptureSender records every envelope it is handed. Err, when set, is
// returned instead of recording.
type CaptureSender struct {
	mu   sync.Mutex
	sent []payload.Envelope
	Err  error
}

// Send implements transport.Sender.
func (c *CaptureSender) Send(_ context.Context, envelope payload.Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.sent = append(c.sent, envelope)
	return nil
}

// Sent returns a copy of the recorded envelopes.
func (c *CaptureSender) Sent() []payload.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]payload.Envelope(nil), c.sent...)
}

// Last returns the most recent envelope.
func (c *CaptureSender) Last() (payload.Envelope, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return payload.Envelope{}, false
	}
	return c.sent[len(c.sent)-1], true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
