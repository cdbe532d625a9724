// pkg/registry/registry_test.go
package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_ShippedFile(t *testing.T) {
	reg, err := LoadRegistry("../../configs/activity-registry.json")
	require.NoError(t, err)

	assert.Len(t, reg.Activities, 10)
	assert.Empty(t, reg.Check())

	a, ok := reg.Lookup("score-provider")
	require.True(t, ok)
	assert.Contains(t, a.ErrorCodes, "INVALID_PROVIDER_DATA")

	_, ok = reg.Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestCheck(t *testing.T) {
	reg, err := ParseRegistry([]byte(`{
		"version": "1",
		"activities": [
			{"id": "a", "taskType": "t1", "inputSchema": {"type": "object"}},
			{"id": "b", "taskType": ""},
			{"id": "c", "taskType": "t1"},
			{"id": "d", "taskType": "t2", "inputSchema": {"type": 12}}
		]
	}`))
	require.NoError(t, err)

	problems := reg.Check()
	require.Len(t, problems, 3)
	assert.Equal(t, "b", problems[0].ActivityID)
	assert.Equal(t, "missing taskType", problems[0].Message)
	assert.Equal(t, "c", problems[1].ActivityID)
	assert.Contains(t, problems[1].Message, "already registered by a")
	assert.Equal(t, "d", problems[2].ActivityID)
}

func TestParseRegistry_Invalid(t *testing.T) {
	_, err := ParseRegistry([]byte(`{"activities": [`))
	assert.Error(t, err)
}

func TestCheck_TimeoutRetriesStatus(t *testing.T) {
	reg, err := ParseRegistry([]byte(`{
		"activities": [
			{"id": "ok", "taskType": "t1", "timeout": "5s", "retries": 3, "implementationStatus": "implemented"},
			{"id": "slow", "taskType": "t2", "timeout": "forever"},
			{"id": "neg", "taskType": "t3", "retries": -1},
			{"id": "odd", "taskType": "t4", "implementationStatus": "shipped"}
		]
	}`))
	require.NoError(t, err)

	problems := reg.Check()
	require.Len(t, problems, 3)
	assert.Equal(t, Problem{ActivityID: "slow", Message: `invalid timeout "forever"`}, problems[0])
	assert.Equal(t, Problem{ActivityID: "neg", Message: "negative retries -1"}, problems[1])
	assert.Equal(t, Problem{ActivityID: "odd", Message: `unknown implementationStatus "shipped"`}, problems[2])
}

func TestActivity_TimeoutDuration(t *testing.T) {
	tests := []struct {
		timeout  string
		expected time.Duration
		wantErr  bool
	}{
		{"", 0, false},
		{"10s", 10 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"0s", 0, true},
		{"ten seconds", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.timeout, func(t *testing.T) {
			got, err := Activity{Timeout: tt.timeout}.TimeoutDuration()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
