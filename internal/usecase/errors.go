package usecase

import (
	"errors"
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidState          = errors.New("invalid state")
	ErrPrecondition          = errors.New("precondition failed")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrMatchClosed marks writes against a finished or canceled match.
	ErrMatchClosed = fmt.Errorf("%w: match is closed", ErrInvalidState)
)

// withDetail attaches a user-facing detail that the transport flattens into
// the error body.
func withDetail(err error, detail string) error {
	if err == nil || detail == "" {
		return err
	}
	return crerr.WithDetail(err, detail)
}
