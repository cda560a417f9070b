package analytics

import (
	"context"
	"errors"
)

// ErrUnknownBackend is returned by NewStore for an unsupported VIEWS_BACKEND.
var ErrUnknownBackend = errors.New("unknown views backend")

// Store persists the site's page-view counter.
type Store interface {
	// Load returns the current count; a missing counter counts as zero.
	Load(ctx context.Context) (int64, error)
	// Increment adds one view and returns the new count.
	Increment(ctx context.Context) (int64, error)
	// Reset sets the counter back to zero.
	Reset(ctx context.Context) error
	Close() error
}
