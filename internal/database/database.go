package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Pranav2188/water-pollution-quirklab/internal/config"
	"github.com/surrealdb/surrealdb.go"
)

// NewDB opens a SurrealDB connection, signs in and selects the namespace and
// database from the configuration.
func NewDB(ctx context.Context, cfg config.Provider) (*surrealdb.DB, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.GetDBURL())
	if err != nil {
		return nil, NewDBError(err, "failed to connect to surrealdb")
	}

	authData := &surrealdb.Auth{
		Username: cfg.GetDBUser(),
		Password: cfg.GetDBPass(),
	}

	if _, err = db.SignIn(ctx, authData); err != nil {
		db.Close(ctx)
		return nil, NewDBError(err, "failed to sign in")
	}

	if err = db.Use(ctx, cfg.GetDBNs(), cfg.GetDBDb()); err != nil {
		db.Close(ctx)
		return nil, NewDBError(err, fmt.Sprintf("failed to use namespace %q database %q", cfg.GetDBNs(), cfg.GetDBDb()))
	}

	slog.Info("Successfully signed in to SurrealDB", "namespace", cfg.GetDBNs(), "database", cfg.GetDBDb())
	return db, nil
}

// Connect is NewDB retried with exponential backoff, for startup while the
// database container may still be coming up.
func Connect(ctx context.Context, cfg config.Provider, retryer *Retryer) (*surrealdb.DB, error) {
	if retryer == nil {
		retryer = NewRetryer()
	}

	var db *surrealdb.DB
	err := retryer.Retry(ctx, func() error {
		var err error
		db, err = NewDB(ctx, cfg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}
