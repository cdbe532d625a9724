// internal/dataset/dataset_test.go
package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provider-ranking-workers/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const yamlDataset = `
providers:
  - id: p1
    npi: "1111111111"
    name: Dr. Alice Smith
    city: Boston
    state: MA
    updatedAt: "2025-06-01"
    factors:
      A: 0.9
      B: 0.8
  - id: p2
    name: Dr. Bob Jones
    state: TX
    factors: {}
`

const jsonList = `[
  {"id": "p3", "name": "Dr. Carol White", "state": "CA", "factors": {"C": 0.7, "F": 0.2}}
]`

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	providers, err := LoadFile(writeFile(t, dir, "east.yaml", yamlDataset))
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "1111111111", providers[0].NPI)
	assert.Equal(t, models.FactorValues{models.FactorA: 0.9, models.FactorB: 0.8}, providers[0].FactorValues)
	assert.Equal(t, "2025-06-01", providers[0].UpdatedAt)

	providers, err = LoadFile(writeFile(t, dir, "west.json", jsonList))
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, 0.2, providers[0].FactorValues[models.FactorF])

	providers, err = LoadFile(writeFile(t, dir, "wrapped.json", `{"providers": [{"id": "p9", "factors": {"A": 1}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "p9", providers[0].ID)
}

func TestLoadFile_NormalizesState(t *testing.T) {
	path := writeFile(t, t.TempDir(), "mixed.json", `[{"id": "p1", "state": " ca ", "factors": {}}]`)

	providers, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "CA", providers[0].State)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"missing id", "a.json", `[{"name": "anon", "factors": {"A": 1}}]`},
		{"unknown factor", "b.yaml", "- id: p1\n  factors:\n    Z: 0.5\n"},
		{"malformed json", "c.json", `[{"id": `},
		{"unsupported", "d.csv", "id,name\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, dir, tt.file, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_Globs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "regions/east.yaml", yamlDataset)
	writeFile(t, dir, "regions/west/ca.json", jsonList)
	writeFile(t, dir, "regions/README.md", "# notes")

	providers, err := Load(filepath.Join(dir, "regions", "**", "*"))
	require.NoError(t, err)

	ids := []string{}
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids)
}

func TestLoad_DuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", jsonList)
	writeFile(t, dir, "b.json", jsonList)

	_, err := Load(filepath.Join(dir, "*.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already loaded")
}

func TestExpand_MissingFile(t *testing.T) {
	_, err := Expand(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	files, err := Expand(filepath.Join(t.TempDir(), "*.json"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
