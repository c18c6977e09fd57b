package session

import "errors"

// ErrNotFound reports a missing artifact or session. Missing inputs are
// surfaced explicitly, never silently defaulted.
var ErrNotFound = errors.New("session: not found")

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
