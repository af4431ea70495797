package auth

import "errors"

var (
	// ErrUnauthorized covers every credential or token rejection. Callers must
	// not distinguish between its causes.
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConfiguration = errors.New("auth misconfigured")
)
