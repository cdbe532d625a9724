// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeQueryExecutionFailed, 3},
		{ErrCodeSearchQueryFailed, 3},
		{ErrCodeQueryTimeout, 2},
		{ErrCodeSearchTimeout, 2},
		{ErrCodeCacheUnavailable, 1},
		{ErrCodeInvalidFactorWeights, 0},
		{ErrCodeInvalidFilterFormat, 0},
		{ErrCodeProviderNotFound, 0},
		{"SOMETHING_ELSE", 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetRetryCount(tt.code))
			assert.Equal(t, tt.expected > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeInvalidFactorWeights:          "SCORING",
		ErrCodeInvalidProviderData:           "SCORING",
		ErrCodeProviderNotFound:              "SCORING",
		ErrCodeCacheUnavailable:              "CACHE",
		ErrCodeQueryTimeout:                  "DATABASE",
		ErrCodeInvalidQueryType:              "DATABASE",
		ErrCodeElasticsearchConnectionFailed: "SEARCH",
		ErrCodeIndexNotFound:                 "SEARCH",
		ErrCodeInvalidFilterFormat:           "VALIDATION",
		ErrCodeInputValidationFailed:         "VALIDATION",
		ErrCodeInternal:                      "OTHER",
	}
	for code, expected := range tests {
		assert.Equal(t, expected, GetErrorCategory(code), string(code))
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable keeps retry budget", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewQueryExecutionFailedError("provider_list", fmt.Errorf("boom")))

		assert.Equal(t, "QUERY_EXECUTION_FAILED", bpmn.Code)
		assert.True(t, bpmn.Retryable)
		assert.Equal(t, 3, bpmn.Retries)
		assert.Contains(t, bpmn.Details, "provider_list")

		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["errorCode"])
		assert.Equal(t, "DATABASE", vars["errorCategory"])
		assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["originalErrorCode"])
	})

	t.Run("non-retryable has no retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewInvalidFilterFormatError("sortKey: rating"))
		assert.False(t, bpmn.Retryable)
		assert.Equal(t, 0, bpmn.Retries)
	})

	t.Run("unmapped code falls back to itself", func(t *testing.T) {
		bpmn := ConvertToBPMNError(&StandardError{Code: "CUSTOM", Message: "custom"})
		assert.Equal(t, "CUSTOM", bpmn.Code)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("standard error passes through", func(t *testing.T) {
		orig := NewProviderNotFoundError("p-1")
		assert.Same(t, orig, Normalize(orig))
	})

	t.Run("wrapped standard error is found", func(t *testing.T) {
		orig := NewIndexNotFoundError("providers")
		assert.Same(t, orig, Normalize(fmt.Errorf("search: %w", orig)))
	})

	t.Run("sentinel with known code", func(t *testing.T) {
		sentinel := stderrors.New("QUERY_TIMEOUT")
		got := Normalize(fmt.Errorf("%w: provider_list", sentinel))

		assert.Equal(t, ErrCodeQueryTimeout, got.Code)
		assert.True(t, got.Retryable)
		assert.True(t, stderrors.Is(got, sentinel))
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		got := Normalize(stderrors.New("kaput"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.False(t, got.Retryable)
		assert.Equal(t, "kaput", got.Details)
	})
}

func TestInvalidFactorWeightsUnwraps(t *testing.T) {
	cause := stderrors.New("INVALID_FACTOR_WEIGHTS")
	err := NewInvalidFactorWeightsError(fmt.Errorf("%w: weights sum to 0.9", cause))

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, ErrCodeInvalidFactorWeights, err.Code)
	assert.Contains(t, err.Details, "0.9")
}
