package apperror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryKinds(t *testing.T) {
	assert.Equal(t, KindTransient, NewTransient(CodeFetchFailed, "fetch failed").Kind)
	assert.Equal(t, KindPersistance, NewPersistance(CodeValidation, "bad input").Kind)
	assert.Equal(t, KindInternal, NewInternal(CodePipelineConfig, "bad settings").Kind)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, NewTransient(CodeFetchFailed, "fetch failed").IsRetryable())
	assert.False(t, NewInternal(CodeRouterRejected, "unknown item").IsRetryable())
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransient(CodeFetchFailed, "fetch failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestErrorAsAppError(t *testing.T) {
	var wrapped error = NewInternal(CodeSessionMissing, "no session")

	var appErr *AppError
	require.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, CodeSessionMissing, appErr.Code)
}

func TestWithDetail(t *testing.T) {
	err := NewInternal(CodePipelineConfig, "bad settings").
		WithDetail("field", "concurrency.observers")

	details, ok := err.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "concurrency.observers", details["field"])
}

func TestGetHttpStatusFallsBackToKind(t *testing.T) {
	assert.Equal(t, 503, New("UNMAPPED", "transient thing", KindTransient).GetHttpStatus())
	assert.Equal(t, 400, New("UNMAPPED", "permanent thing", KindPersistance).GetHttpStatus())
	assert.Equal(t, 500, New("UNMAPPED", "broken thing", KindInternal).GetHttpStatus())
}
