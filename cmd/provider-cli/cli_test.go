// cmd/provider-cli/cli_test.go
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provider-ranking-workers/internal/models"
)

const testDataset = `
providers:
  - id: p1
    npi: "1111111111"
    name: Dr. Alice Smith
    city: Boston
    state: MA
    updatedAt: "2025-06-14"
    factors: {A: 1, B: 1, C: 1, D: 1, E: 1, F: 1}
  - id: p2
    name: Dr. Bob Jones
    city: Austin
    state: TX
    updatedAt: "2025-01-01"
    factors: {A: 0.9, C: 0.7}
  - id: p3
    name: Dr. Carol White
    city: Cambridge
    state: MA
    factors: {A: 1, B: 1, C: 1, D: 1}
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDataset), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreCmd_Factors(t *testing.T) {
	out, err := runCLI(t, "score", "--factors", "a=1,B=1,C=1,D=1", "-o", "json")
	require.NoError(t, err)

	var rows []scoredRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "ad-hoc", rows[0].ID)
	assert.Equal(t, 80, rows[0].TotalScore)
	assert.Equal(t, models.ConfidenceHigh, rows[0].Confidence.Label)
	assert.Equal(t, []models.FactorCode{models.FactorE, models.FactorF}, rows[0].MissingFactors)
}

func TestScoreCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no input", []string{"score"}, "provide a dataset or --factors"},
		{"unknown factor", []string{"score", "--factors", "Z=1"}, "unknown factor"},
		{"not a number", []string{"score", "--factors", "A=high"}, "not a number"},
		{"bad output", []string{"score", "--factors", "A=1", "-o", "xml"}, "invalid output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScoreCmd_Table(t *testing.T) {
	out, err := runCLI(t, "score", writeDataset(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Dr. Alice Smith")
	assert.Contains(t, out, "100")
	assert.Contains(t, out, "B,D,E,F")
}

func TestRankCmd(t *testing.T) {
	path := writeDataset(t)

	out, err := runCLI(t, "rank", path, "--state", "ma", "-o", "json")
	require.NoError(t, err)

	var result struct {
		TotalCount   int `json:"totalCount"`
		MatchedCount int `json:"matchedCount"`
		Providers    []struct {
			Rank     int             `json:"rank"`
			Provider models.Provider `json:"provider"`
			Tier     string          `json:"scoreTier"`
		} `json:"providers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 2, result.MatchedCount)
	require.Len(t, result.Providers, 2)
	assert.Equal(t, "p1", result.Providers[0].Provider.ID)
	assert.Equal(t, 100, result.Providers[0].Provider.TotalScore)
	assert.Equal(t, "p3", result.Providers[1].Provider.ID)
	assert.Equal(t, "high", result.Providers[1].Tier)

	out, err = runCLI(t, "rank", path, "--sort", "name", "--limit", "1", "-o", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.MatchedCount)
	require.Len(t, result.Providers, 1)
	assert.Equal(t, "p1", result.Providers[0].Provider.ID)

	_, err = runCLI(t, "rank", path, "--sort", "distance")
	assert.Error(t, err)
}

func TestFreshnessCmd(t *testing.T) {
	out, err := runCLI(t, "freshness", "2025-06-14T12:00:00Z", "2025-06-10", "not-a-date",
		"--now", "2025-06-15T00:00:00Z", "-o", "json")
	require.NoError(t, err)

	var badges map[string]models.FreshnessBadge
	require.NoError(t, json.Unmarshal([]byte(out), &badges))
	assert.Equal(t, models.FreshnessToday, badges["2025-06-14T12:00:00Z"].Label)
	assert.Equal(t, models.FreshnessThisWeek, badges["2025-06-10"].Label)
	assert.Equal(t, models.FreshnessOver30Days, badges["not-a-date"].Label)

	_, err = runCLI(t, "freshness", "2025-06-14", "--now", "yesterday")
	assert.Error(t, err)
}

func TestInsightsCmd(t *testing.T) {
	path := writeDataset(t)

	out, err := runCLI(t, "insights", path, "--id", "p2", "-o", "json")
	require.NoError(t, err)

	var result struct {
		Provider models.Provider `json:"provider"`
		Insights struct {
			RelationshipStatus string   `json:"relationshipStatus"`
			TopSignals         []string `json:"topSignals"`
		} `json:"insights"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 38, result.Provider.TotalScore)
	assert.Equal(t, "Needs Attention", result.Insights.RelationshipStatus)
	assert.Len(t, result.Insights.TopSignals, 2)

	_, err = runCLI(t, "insights", path, "--id", "p404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = runCLI(t, "insights", path)
	assert.Error(t, err)
}

func TestDashboardCmd(t *testing.T) {
	out, err := runCLI(t, "dashboard", writeDataset(t), "--min-score", "50", "-o", "json")
	require.NoError(t, err)

	var d struct {
		Total          int `json:"total"`
		HighPerformers int `json:"highPerformers"`
		FilteredCount  int `json:"filteredCount"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, 3, d.Total)
	assert.Equal(t, 2, d.HighPerformers)
	assert.Equal(t, 2, d.FilteredCount)
}

func TestRegistryValidateCmd(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"activities": [
		{"id": "score", "taskType": "score-provider", "inputSchema": {"type": "object"}}
	]}`), 0o644))
	duplicate := filepath.Join(dir, "duplicate.json")
	require.NoError(t, os.WriteFile(duplicate, []byte(`{"activities": [
		{"id": "score", "taskType": "score-provider"},
		{"id": "score-v2", "taskType": "score-provider"}
	]}`), 0o644))

	out, err := runCLI(t, "registry", "validate", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "1 activities")

	out, err = runCLI(t, "registry", "validate", duplicate)
	require.Error(t, err)
	assert.Contains(t, out, "already registered by score")
}

// bulkCluster answers just enough of the Elasticsearch API for index creation
// and bulk indexing.
type bulkCluster struct {
	mu      sync.Mutex
	exists  bool
	created bool
	ids     []string
}

func (c *bulkCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case r.Method == http.MethodHead:
		if c.exists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut:
		c.exists, c.created = true, true
		_, _ = w.Write([]byte(`{"acknowledged": true, "index": "providers"}`))
	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		var items []string
		scanner := bufio.NewScanner(r.Body)
		scanner.Buffer(make([]byte, 1<<20), 1<<20)
		for line := 0; scanner.Scan(); line++ {
			if line%2 != 0 {
				continue
			}
			var meta map[string]map[string]string
			_ = json.Unmarshal(scanner.Bytes(), &meta)
			id := meta["index"]["_id"]
			c.ids = append(c.ids, id)
			items = append(items, fmt.Sprintf(`{"index": {"_id": %q, "status": 201}}`, id))
		}
		fmt.Fprintf(w, `{"took": 1, "errors": false, "items": [%s]}`, strings.Join(items, ","))
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func TestIndexCmd(t *testing.T) {
	cluster := &bulkCluster{}
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	out, err := runCLI(t, "index", writeDataset(t), "--es-url", srv.URL, "--index", "providers", "-o", "json")
	require.NoError(t, err)

	var stats indexStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, "providers", stats.Index)
	assert.True(t, stats.Created)
	assert.Equal(t, uint64(3), stats.Indexed)
	assert.Zero(t, stats.Failed)

	assert.True(t, cluster.created)
	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, cluster.ids)
}
