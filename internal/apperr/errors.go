package apperr

import "errors"

var (
	ErrOutOfRange    = errors.New("no open thread at that position")
	ErrInvalidBody   = errors.New("invalid thread text")
	ErrInvalidFilter = errors.New("invalid status filter")
	ErrNoIndex       = errors.New("no search index configured")
)
