package domain_test

import (
	"errors"
	"testing"

	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidationErrorsWrapErrValidation(t *testing.T) {
	for _, err := range []error{
		domain.ErrMissingFile,
		domain.ErrEmptyFilename,
		domain.ErrInvalidFilename,
		domain.ErrTooLarge,
	} {
		assert.True(t, errors.Is(err, domain.ErrValidation), err.Error())
		assert.False(t, errors.Is(err, domain.ErrBackend), err.Error())
		assert.False(t, errors.Is(err, domain.ErrNotFound), err.Error())
	}
}
