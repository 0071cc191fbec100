package directory

import "errors"

var (
	// ErrNotReady is transient: the index has not been published yet.
	ErrNotReady = errors.New("index not ready")

	ErrInvalidOffset    = errors.New("invalid offset")
	ErrLetterNotFound   = errors.New("letter not found")
	ErrEmptyQuery       = errors.New("query too short")
	ErrUnsorted         = errors.New("corpus not sorted")
	ErrAlreadyPublished = errors.New("index already published")
)

// IsRetryable reports whether err is worth retrying unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNotReady)
}
