// internal/common/camunda/job_test.go
package camunda

import (
	stderrors "errors"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provider-ranking-workers/internal/common/errors"
	"provider-ranking-workers/internal/common/validation"
	"provider-ranking-workers/pkg/registry"
)

func createTestJob(vars string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42, ProcessInstanceKey: 7, Variables: vars}}
}

func createTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	reg, err := registry.LoadRegistry("../../../configs/activity-registry.json")
	require.NoError(t, err)
	v, err := validation.NewValidator(reg)
	require.NoError(t, err)
	return &Runtime{Validator: v}
}

type testInput struct {
	QueryType  string `json:"queryType"`
	ProviderID string `json:"providerId"`
}

func TestRuntime_Decode(t *testing.T) {
	rt := createTestRuntime(t)

	t.Run("valid variables", func(t *testing.T) {
		var in testInput
		err := rt.Decode("query-postgresql", createTestJob(`{"queryType":"provider_details","providerId":"p1"}`), &in)
		require.NoError(t, err)
		assert.Equal(t, "p1", in.ProviderID)
	})

	t.Run("schema violation", func(t *testing.T) {
		var in testInput
		err := rt.Decode("query-postgresql", createTestJob(`{"queryType":"bogus"}`), &in)
		require.Error(t, err)

		var stdErr *errors.StandardError
		require.True(t, stderrors.As(err, &stdErr))
		assert.Equal(t, errors.ErrCodeInputValidationFailed, stdErr.Code)
		assert.Equal(t, "query-postgresql", stdErr.Metadata["taskType"])
	})

	t.Run("empty variables decode as empty object", func(t *testing.T) {
		var in testInput
		require.NoError(t, rt.Decode("rank-providers", createTestJob(""), &in))
	})

	t.Run("nil runtime skips validation", func(t *testing.T) {
		var nilRT *Runtime
		var in testInput
		require.NoError(t, nilRT.Decode("query-postgresql", createTestJob(`{"queryType":"bogus"}`), &in))
		assert.Equal(t, "bogus", in.QueryType)
	})

	t.Run("malformed json", func(t *testing.T) {
		var nilRT *Runtime
		var in testInput
		assert.Error(t, nilRT.Decode("x", createTestJob(`{"queryType":`), &in))
	})
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, IsRetryableZeebeError(stderrors.New("rpc error: code = Unavailable desc = connection refused")))
	assert.True(t, IsRetryableZeebeError(stderrors.New("context deadline exceeded")))
	assert.False(t, IsRetryableZeebeError(stderrors.New("NOT_FOUND: process definition")))
}

func TestBackoff(t *testing.T) {
	cfg := DefaultRetryConfig
	assert.Equal(t, cfg.BaseDelay, backoff(cfg, 0))
	assert.Equal(t, 2*cfg.BaseDelay, backoff(cfg, 1))
	assert.Equal(t, cfg.MaxDelay, backoff(cfg, 10))
}
