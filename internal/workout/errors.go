package workout

import (
	"errors"
	"strings"
)

var (
	// ErrSessionExpired means the stored token failed the guard check and
	// nothing was sent. The caller should send the user to login.
	ErrSessionExpired = errors.New("your session has expired, please log in again")
	ErrUnknownPreset  = errors.New("unknown workout preset")
	ErrBusy           = errors.New("a request is already in flight")
	ErrNotEditing     = errors.New("no workout is being edited")
)

// ValidationError lists every problem found in a draft before submission.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid workout: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(format string) {
	e.Problems = append(e.Problems, format)
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
