package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranav2188/water-pollution-quirklab/internal/testutils"
)

func TestDBError(t *testing.T) {
	base := errors.New("connection reset")
	err := NewDBError(base, "failed to bump counter").
		WithQuery("UPSERT counter:views SET count += 1").
		WithParams(map[string]any{"id": "views"})

	assert.Contains(t, err.Error(), "failed to bump counter")
	assert.Contains(t, err.Error(), "Query: UPSERT counter:views")
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, errors.Is(err, base))
	assert.True(t, errors.Is(err, ErrQueryFailed))

	notFound := NewDBError(ErrNotFound, "no rows")
	assert.True(t, errors.Is(notFound, ErrNotFound))
	assert.False(t, errors.Is(notFound, ErrQueryFailed), "no statement recorded")
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))

	wrapped := WrapError(errors.New("boom"), "load views")
	assert.EqualError(t, wrapped, "load views: boom")

	dbErr := NewDBError(ErrNotFound, "no rows")
	rewrapped := WrapError(dbErr, "load views")
	assert.Same(t, dbErr, rewrapped)
	assert.Contains(t, rewrapped.Error(), "load views: no rows")
}

func TestHasLimitClause(t *testing.T) {
	assert.True(t, hasLimitClause("SELECT * FROM counter LIMIT 5"))
	assert.True(t, hasLimitClause("select * from counter limit 1"))
	assert.False(t, hasLimitClause("SELECT * FROM limits"))
}

func TestRetryer(t *testing.T) {
	r := &Retryer{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := r.Retry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("not yet")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up", func(t *testing.T) {
		calls := 0
		err := r.Retry(context.Background(), func() error {
			calls++
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 4, calls)
	})

	t.Run("stops on canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := r.Retry(ctx, func() error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("delay is capped", func(t *testing.T) {
		assert.Equal(t, 2*time.Millisecond, r.delay(10))
	})
}

func TestNewDB(t *testing.T) {
	cfg := testutils.ConfigForTests(t)
	testutils.RequireEnv(t, "SURREAL_URL")

	db, err := NewDB(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close(context.Background())

	rows, err := Query[map[string]any](context.Background(), db, "RETURN [{ ok: true }]", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, rows)

	bad := *cfg
	bad.DBPass = "wrongpassword"
	_, err = NewDB(context.Background(), &bad)
	assert.Error(t, err)
}
