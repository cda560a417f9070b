package analytics

import (
	"context"
	"errors"

	"github.com/Pranav2188/water-pollution-quirklab/internal/database"
	"github.com/surrealdb/surrealdb.go"
)

const (
	counterLoadQuery      = "SELECT count FROM counter:views"
	counterIncrementQuery = "UPSERT counter:views SET count += 1, updated_at = time::now() RETURN AFTER"
	counterResetQuery     = "UPSERT counter:views SET count = 0, updated_at = time::now()"
)

type counterRow struct {
	Count int64 `json:"count"`
}

// SurrealStore keeps the counter in the SurrealDB record counter:views.
type SurrealStore struct {
	db *surrealdb.DB
}

var _ Store = (*SurrealStore)(nil)

// NewSurrealStore uses an open connection; Close closes it.
func NewSurrealStore(db *surrealdb.DB) *SurrealStore {
	return &SurrealStore{db: db}
}

func (s *SurrealStore) Load(ctx context.Context) (int64, error) {
	row, err := database.QueryOne[counterRow](ctx, s.db, counterLoadQuery, nil)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, database.WrapError(err, "load view counter")
	}
	return row.Count, nil
}

func (s *SurrealStore) Increment(ctx context.Context) (int64, error) {
	row, err := database.QueryOne[counterRow](ctx, s.db, counterIncrementQuery, nil)
	if err != nil {
		return 0, database.WrapError(err, "increment view counter")
	}
	return row.Count, nil
}

func (s *SurrealStore) Reset(ctx context.Context) error {
	return database.WrapError(database.Execute(ctx, s.db, counterResetQuery, nil), "reset view counter")
}

func (s *SurrealStore) Close() error {
	return s.db.Close(context.Background())
}
