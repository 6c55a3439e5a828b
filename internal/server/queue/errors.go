package queue

import "errors"

// ErrStopRepeating, returned by a handler of a repeating job, completes the
// job without scheduling its next cycle.
var ErrStopRepeating = errors.New("stop repeating")

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying: the job fails on this attempt
// whatever its remaining attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
