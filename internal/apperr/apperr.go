// Package apperr defines the error kinds every domain package wraps its
// sentinel errors in. Handlers only ever switch on these kinds.
package apperr

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrSessionFull         = errors.New("session full")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrAlreadyUsed         = errors.New("already used")
	ErrOutOfWindow         = errors.New("out of check-in window")
	ErrInvalid             = errors.New("invalid input")

	// ErrTryAgain means a lock could not be acquired in time. The caller may
	// retry; the core never does.
	ErrTryAgain = errors.New("try again")
)

// Kind returns the kind err wraps, or nil when it wraps none of them.
func Kind(err error) error {
	for _, k := range []error{
		ErrNotFound,
		ErrConflict,
		ErrInsufficientCredits,
		ErrSessionFull,
		ErrUnauthorized,
		ErrAlreadyUsed,
		ErrOutOfWindow,
		ErrInvalid,
		ErrTryAgain,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
