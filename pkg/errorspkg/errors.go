// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal indicates internal server error.
var ErrInternal = errors.New("internal")

// ErrUnavailable indicates a transient store or transport failure.
// It is the only error for which a blind caller retry is appropriate.
var ErrUnavailable = errors.New("service temporarily unavailable")
