package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{errors.New("meow"), 1},
		{ErrMissingInput, 2},
		{ErrOracleInconsistency.Wrapf("r = %g", 1e9), 4},
		{fmt.Errorf("task 3: %w", ErrMalformedCatalog.Wrap("line 7")), 5},
		{fmt.Errorf("startup: %w", ErrConfig), 6},
	}

	for i, test := range tests {
		assert.Equal(t, test.code, ExitCode(test.err), "case %d", i)
	}
}

func TestTaskLocal(t *testing.T) {
	assert.True(t, TaskLocal(ErrMissingInput.Wrap("snap 12")))
	assert.True(t, TaskLocal(fmt.Errorf("x: %w", ErrMalformedCatalog)))
	assert.True(t, TaskLocal(ErrAlreadyComplete))
	assert.False(t, TaskLocal(ErrOracleInconsistency.Wrap("r < 0")))
	assert.False(t, TaskLocal(ErrConfig))
	assert.False(t, TaskLocal(errors.New("disk on fire")))
}
