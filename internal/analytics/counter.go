package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Pranav2188/water-pollution-quirklab/internal/config"
	"github.com/Pranav2188/water-pollution-quirklab/internal/database"
	"github.com/Pranav2188/water-pollution-quirklab/internal/metrics"
	"github.com/Pranav2188/water-pollution-quirklab/internal/pubsub"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
)

// Counter is the site-wide page view counter.
type Counter struct {
	store Store
}

// NewCounter counts views in store.
func NewCounter(store Store) *Counter {
	return &Counter{store: store}
}

// NewStore opens the store selected by VIEWS_BACKEND. The file backend writes to fs.
func NewStore(ctx context.Context, cfg config.Provider, fs afero.Fs) (Store, error) {
	switch cfg.GetViewsBackend() {
	case config.ViewsBackendFile:
		return NewFileStore(fs, cfg.GetViewsFile()), nil

	case config.ViewsBackendSurreal:
		db, err := database.Connect(ctx, cfg, nil)
		if err != nil {
			return nil, fmt.Errorf("open surreal views store: %w", err)
		}
		return NewSurrealStore(db), nil

	case config.ViewsBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("open redis views store: %w", err)
		}
		return NewRedisStore(client), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.GetViewsBackend())
	}
}

// Record counts one view and returns the new total.
func (c *Counter) Record(ctx context.Context) (int64, error) {
	n, err := c.store.Increment(ctx)
	if err != nil {
		return 0, fmt.Errorf("record view: %w", err)
	}
	metrics.PageViewed()
	return n, nil
}

// Total returns the number of views counted so far.
func (c *Counter) Total(ctx context.Context) (int64, error) {
	n, err := c.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load views: %w", err)
	}
	return n, nil
}

// Reset sets the counter to zero.
func (c *Counter) Reset(ctx context.Context) error {
	if err := c.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset views: %w", err)
	}
	return nil
}

// Subscribe counts every ViewEvent published on the bus.
func (c *Counter) Subscribe(ctx context.Context, sub pubsub.Subscriber) error {
	return sub.Subscribe(ctx, ViewEvent.Name(), c.HandleView)
}

// HandleView is the bus handler for ViewEvent.
func (c *Counter) HandleView(ctx context.Context, msg pubsub.Message) error {
	view, err := pubsub.Decode(ViewEvent, msg)
	if err != nil {
		return err
	}

	total, err := c.Record(ctx)
	if err != nil {
		return err
	}
	slog.Debug("Page view counted", "viewer", view.ViewerID, "section", view.Section, "total", total)
	return nil
}

// Close releases the store.
func (c *Counter) Close() error {
	return c.store.Close()
}
