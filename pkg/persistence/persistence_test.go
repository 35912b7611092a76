package persistence_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-tripsurvey/pkg/answers"
	"github.com/goliatone/go-tripsurvey/pkg/persistence"
)

type fakeRedis struct {
	values map[string]string
	fail   error
	closed bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.fail != nil {
		return redis.NewStringResult("", f.fail)
	}
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	if f.fail != nil {
		return redis.NewStatusResult("", f.fail)
	}
	f.values[key] = toString(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if f.fail != nil {
		return redis.NewBoolResult(false, f.fail)
	}
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = toString(value)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func toString(value any) string {
	switch typed := value.(type) {
	case []byte:
		return string(typed)
	case string:
		return typed
	default:
		return ""
	}
}

func drivers(t *testing.T) map[string]*persistence.Store {
	t.Helper()
	ctx := context.Background()

	file, err := persistence.NewFileStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)

	sqlite, err := persistence.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)

	stores := map[string]*persistence.Store{
		"file":   file,
		"sqlite": sqlite,
		"redis":  persistence.NewRedisStore(newFakeRedis(), "test"),
		"memory": persistence.NewMemoryStore(),
	}
	t.Cleanup(func() {
		for _, store := range stores {
			_ = store.Close()
		}
	})
	return stores
}

func TestGatewayRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, loaded.Len(), "fresh store should be empty")

			state := answers.New()
			state.Set("tour_nights", "3")
			state.Toggle("plastic_bottles_actions", "Used refill app", true)
			require.NoError(t, store.Save(ctx, state))

			loaded, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "3", loaded.Text("tour_nights"))
			value, ok := loaded.Get("plastic_bottles_actions")
			require.True(t, ok)
			assert.Equal(t, []string{"Used refill app"}, value.Selected())
			assert.Equal(t, name, store.Driver())
		})
	}
}

func TestGatewaySubmissionIDIsStable(t *testing.T) {
	ctx := context.Background()
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			first, err := store.SubmissionID(ctx)
			require.NoError(t, err)
			require.NotEmpty(t, first)

			require.NoError(t, store.Save(ctx, answers.New()))

			second, err := store.SubmissionID(ctx)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestFileStoreCorruptStateIsReported(t *testing.T) {
	dir := t.TempDir()
	store, err := persistence.NewFileStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, persistence.AnswersKey+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err = store.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, persistence.ErrCorrupt))
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := persistence.NewFileStore(dir)
	require.NoError(t, err)
	state := answers.New()
	state.Set("your_name", "Sam")
	require.NoError(t, first.Save(ctx, state))
	id, err := first.SubmissionID(ctx)
	require.NoError(t, err)

	second, err := persistence.NewFileStore(dir)
	require.NoError(t, err)
	loaded, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sam", loaded.Text("your_name"))

	again, err := second.SubmissionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestRedisStorePrefixesKeys(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	store := persistence.NewRedisStore(client, "survey")

	require.NoError(t, store.Save(ctx, answers.New()))
	_, err := store.SubmissionID(ctx)
	require.NoError(t, err)

	assert.Contains(t, client.values, "survey:"+persistence.AnswersKey)
	assert.Contains(t, client.values, "survey:"+persistence.SubmissionIDKey)

	require.NoError(t, store.Close())
	assert.True(t, client.closed)

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, persistence.ErrClosed)
}

func TestRedisStoreSurfacesClientErrors(t *testing.T) {
	client := newFakeRedis()
	client.fail = errors.New("connection refused")
	store := persistence.NewRedisStore(client, "")

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, persistence.ErrCorrupt))
	assert.Error(t, store.Save(context.Background(), answers.New()))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := persistence.Open(ctx, persistence.Config{Driver: "memory"})
	require.NoError(t, err)
	assert.Equal(t, persistence.DriverMemory, store.Driver())

	store, err = persistence.Open(ctx, persistence.Config{Driver: "FILE", Path: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, persistence.DriverFile, store.Driver())

	_, err = persistence.Open(ctx, persistence.Config{Driver: "mongo"})
	assert.ErrorIs(t, err, persistence.ErrUnknownDriver)
}
