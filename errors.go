package colfilter

import (
	"errors"
	"fmt"

	"github.com/hupe1980/colfilter/cache"
	"github.com/hupe1980/colfilter/rule"
)

var (
	// ErrColumnExists is returned when registering a column key twice.
	ErrColumnExists = errors.New("column already registered")

	// ErrColumnNotFound is returned when a column key is unknown.
	ErrColumnNotFound = errors.New("column not found")

	// ErrNoCache is returned by selection optimization when the column's
	// controller has no value cache attached.
	ErrNoCache = errors.New("column has no value cache")

	// ErrInvalidSearch is returned when a rule tree holds an operator
	// that is illegal for its column type.
	ErrInvalidSearch = rule.ErrInvalidSearch

	// ErrSuperseded is returned when a cache load is abandoned because a
	// newer load started.
	ErrSuperseded = cache.ErrSuperseded
)

// ErrColumn tags an error with the column it came from.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrColumn struct {
	Key   string
	cause error
}

func (e *ErrColumn) Error() string {
	return fmt.Sprintf("column %q: %v", e.Key, e.cause)
}

func (e *ErrColumn) Unwrap() error { return e.cause }

func columnErr(key string, err error) error {
	if err == nil {
		return nil
	}
	return &ErrColumn{Key: key, cause: err}
}
