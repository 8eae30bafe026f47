package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageFormatting(t *testing.T) {
	e := New(ErrorKindValidation, "bad input")
	assert.Equal(t, "Validation: bad input", e.Error())

	cause := errors.New("boom")
	wrapped := Wrap(ErrorKindProviderError, "upstream failed", cause)
	assert.Equal(t, "ProviderError: upstream failed: boom", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrorKindInterpretationFailed, "INTERPRETER_FAILED"},
		{ErrorKindNotFound, "NOT_FOUND"},
		{ErrorKindAmbiguous, "AMBIGUOUS"},
		{ErrorKindProviderError, "PROVIDER_ERROR"},
		{ErrorKindSyncFailure, "SYNC_FAILURE"},
		{ErrorKindValidation, "VALIDATION"},
		{ErrorKindInternal, "INTERNAL"},
		{ErrorKindSetupRequired, "SetupRequired"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Code())
		})
	}
}

func TestAsUnwrapsToConcreteError(t *testing.T) {
	var target *Error
	err := Wrap(ErrorKindInternal, "oops", errors.New("cause"))
	assert.True(t, As(err, &target))
	assert.Equal(t, ErrorKindInternal, target.Kind)
}
