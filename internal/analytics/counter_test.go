package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Pranav2188/water-pollution-quirklab/internal/config"
	"github.com/Pranav2188/water-pollution-quirklab/internal/pubsub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSubscriber records the subscriptions made against it.
type mockSubscriber struct {
	mu       sync.Mutex
	handlers map[string]pubsub.Handler
}

func (m *mockSubscriber) Subscribe(ctx context.Context, topic string, handler pubsub.Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handlers == nil {
		m.handlers = make(map[string]pubsub.Handler)
	}
	m.handlers[topic] = handler
	return nil
}

func (m *mockSubscriber) Close() error { return nil }

type failingStore struct{}

func (failingStore) Load(context.Context) (int64, error)      { return 0, assert.AnError }
func (failingStore) Increment(context.Context) (int64, error) { return 0, assert.AnError }
func (failingStore) Reset(context.Context) error              { return assert.AnError }
func (failingStore) Close() error                             { return nil }

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, "data/views.json")
	store.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }

	n, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "missing file counts as zero")

	for i := 1; i <= 3; i++ {
		n, err = store.Increment(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}

	data, err := afero.ReadFile(fs, "data/views.json")
	require.NoError(t, err)
	var doc fileCounter
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, int64(3), doc.Views)
	assert.Equal(t, 2025, doc.UpdatedAt.Year())

	exists, err := afero.Exists(fs, "data/views.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists, "temporary file is renamed away")

	require.NoError(t, store.Reset(ctx))
	n, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	_, err := NewFileStore(fs, "views.json").Increment(ctx)
	require.NoError(t, err)

	n, err := NewFileStore(fs, "views.json").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFileStore_CorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "views.json", []byte("{nope"), 0o644))

	_, err := NewFileStore(fs, "views.json").Load(context.Background())
	assert.Error(t, err)
}

func TestFileStore_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(afero.NewMemMapFs(), "views.json")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Increment(ctx)
		}()
	}
	wg.Wait()

	n, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), n)
}

func TestCounter(t *testing.T) {
	ctx := context.Background()
	counter := NewCounter(NewFileStore(afero.NewMemMapFs(), "views.json"))
	defer counter.Close()

	n, err := counter.Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	total, err := counter.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	require.NoError(t, counter.Reset(ctx))
	total, err = counter.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestCounter_StoreErrorsAreWrapped(t *testing.T) {
	counter := NewCounter(failingStore{})
	ctx := context.Background()

	_, err := counter.Record(ctx)
	assert.ErrorIs(t, err, assert.AnError)
	_, err = counter.Total(ctx)
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorIs(t, counter.Reset(ctx), assert.AnError)
}

func TestCounter_SubscribeCountsViewEvents(t *testing.T) {
	ctx := context.Background()
	counter := NewCounter(NewFileStore(afero.NewMemMapFs(), "views.json"))
	sub := &mockSubscriber{}

	require.NoError(t, counter.Subscribe(ctx, sub))
	handler, ok := sub.handlers[ViewEvent.Name()]
	require.True(t, ok)

	payload, err := json.Marshal(View{ViewerID: "v1", Section: "home", Path: "/"})
	require.NoError(t, err)
	require.NoError(t, handler(ctx, pubsub.Message{Topic: ViewEvent.Name(), Payload: payload}))

	total, err := counter.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	assert.Error(t, handler(ctx, pubsub.Message{Topic: ViewEvent.Name(), Payload: []byte("garbage")}))
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	store, err := NewStore(ctx, &config.Config{ViewsBackend: config.ViewsBackendFile, ViewsFile: "v.json"}, afero.NewMemMapFs())
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	_, err = NewStore(ctx, &config.Config{ViewsBackend: "floppy"}, afero.NewMemMapFs())
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}
