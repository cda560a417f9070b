package database

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a query that needs a row returns none.
	ErrNotFound = errors.New("record not found")

	// ErrQueryFailed matches any DBError raised while executing a statement.
	ErrQueryFailed = errors.New("query execution failed")
)

// DBError carries the statement and parameters of a failed database call.
type DBError struct {
	err     error
	context string
	query   string
	params  map[string]any
}

// NewDBError wraps err with a description of the failed operation.
func NewDBError(err error, context string) *DBError {
	return &DBError{
		err:     err,
		context: context,
	}
}

// WithQuery records the statement that failed.
func (e *DBError) WithQuery(query string) *DBError {
	e.query = query
	return e
}

// WithParams records the statement parameters.
func (e *DBError) WithParams(params map[string]any) *DBError {
	e.params = params
	return e
}

func (e *DBError) Error() string {
	msg := e.context
	if e.query != "" {
		msg = fmt.Sprintf("%s\nQuery: %s", msg, e.query)
	}
	if len(e.params) > 0 {
		msg = fmt.Sprintf("%s\nParams: %+v", msg, e.params)
	}
	if e.err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

func (e *DBError) Unwrap() error {
	return e.err
}

// Is matches ErrQueryFailed for every DBError built with a query, and the
// wrapped error otherwise.
func (e *DBError) Is(target error) bool {
	if target == ErrQueryFailed {
		return e.query != ""
	}
	return false
}

// WrapError adds context to err, reusing an existing DBError.
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}

	var dbErr *DBError
	if errors.As(err, &dbErr) {
		if dbErr.context != "" {
			context = fmt.Sprintf("%s: %s", context, dbErr.context)
		}
		dbErr.context = context
		return dbErr
	}

	return NewDBError(err, context)
}
