package internal_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanLimbu/todo-tracker/internal"
)

func TestError(t *testing.T) {
	t.Parallel()

	orig := errors.New("boom")

	err := internal.WrapErrorf(orig, internal.ErrorCodeNotFound, "find %s", "123")
	assert.Equal(t, "find 123: boom", err.Error())
	assert.ErrorIs(t, err, orig)

	var ierr *internal.Error
	assert.True(t, errors.As(err, &ierr))
	assert.Equal(t, internal.ErrorCodeNotFound, ierr.Code())

	err = internal.NewErrorf(internal.ErrorCodeInvalidArgument, "bad")
	assert.Equal(t, "bad", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
