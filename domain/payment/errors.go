package payment

import "errors"

// ErrNonRetryable marks failures that redelivery cannot fix.
// The consumer routes them to the dead-letter topic instead of retrying.
var ErrNonRetryable = errors.New("non-retryable payment event")

// NonRetryable wraps cause so that errors.Is(err, ErrNonRetryable) holds while the cause stays reachable
func NonRetryable(cause error) error {
	if cause == nil {
		return nil
	}
	return &nonRetryableError{cause: cause}
}

// IsNonRetryable reports whether err was classified as non-retryable
func IsNonRetryable(err error) bool {
	return errors.Is(err, ErrNonRetryable)
}

type nonRetryableError struct {
	cause error
}

func (e *nonRetryableError) Error() string {
	return "non-retryable: " + e.cause.Error()
}

func (e *nonRetryableError) Unwrap() error { return e.cause }

func (e *nonRetryableError) Is(target error) bool {
	return target == ErrNonRetryable
}
