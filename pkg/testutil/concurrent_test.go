package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "kennitala/pkg/domain-errors"
)

func TestRunConcurrent(t *testing.T) {
	result := RunConcurrent(30, func(idx int) error {
		switch idx % 3 {
		case 0:
			return nil
		case 1:
			return dErrors.New(dErrors.CodeInvalidInput, "bad date")
		default:
			return errors.New("boom")
		}
	})

	assert.Equal(t, int32(10), result.Successes)
	assert.Equal(t, int32(10), result.Invalid)
	assert.Equal(t, int32(10), result.Errors)
	assert.Equal(t, int32(30), result.Total())
}

func TestRunConcurrentCollect(t *testing.T) {
	successes, errs := RunConcurrentCollect(10, func(idx int) error {
		if idx < 4 {
			return errors.New("fail")
		}
		return nil
	})

	assert.Equal(t, int32(6), successes)
	assert.Len(t, errs, 4)
}
