package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("object not found")
	ErrBackend    = errors.New("storage backend error")

	ErrMissingFile     = fmt.Errorf("%w: no file provided", ErrValidation)
	ErrEmptyFilename   = fmt.Errorf("%w: no file selected", ErrValidation)
	ErrInvalidFilename = fmt.Errorf("%w: invalid filename", ErrValidation)
	ErrTooLarge        = fmt.Errorf("%w: file too large", ErrValidation)
)
