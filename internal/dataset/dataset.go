// internal/dataset/dataset.go
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"provider-ranking-workers/internal/models"
)

// File is the on-disk layout of a provider dataset. A bare list of
// providers is accepted as well.
type File struct {
	Providers []models.Provider `json:"providers" yaml:"providers"`
}

// Expand resolves glob patterns (doublestar syntax, so ** recurses) into a
// sorted, de-duplicated list of dataset files. A pattern without glob
// metacharacters must name an existing file.
func Expand(patterns ...string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			return nil, fmt.Errorf("dataset %s: %w", pattern, os.ErrNotExist)
		}
		for _, m := range matches {
			if !isDataset(m) || seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Load reads every dataset matched by patterns. Provider ids must be unique
// across all files.
func Load(patterns ...string) ([]models.Provider, error) {
	files, err := Expand(patterns...)
	if err != nil {
		return nil, err
	}

	origin := make(map[string]string)
	providers := []models.Provider{}
	for _, path := range files {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		for _, p := range loaded {
			if prev, dup := origin[p.ID]; dup {
				return nil, fmt.Errorf("provider %s in %s already loaded from %s", p.ID, path, prev)
			}
			origin[p.ID] = path
			providers = append(providers, p)
		}
	}
	return providers, nil
}

// LoadFile decodes a single JSON or YAML dataset and validates each provider.
func LoadFile(path string) ([]models.Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var providers []models.Provider
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		providers, err = decodeJSON(data)
	case ".yaml", ".yml":
		providers, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("dataset %s: unsupported extension", path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}

	for i := range providers {
		if err := providers[i].Validate(); err != nil {
			return nil, fmt.Errorf("dataset %s entry %d: %w", path, i, err)
		}
		providers[i].State = models.NormalizeState(providers[i].State)
	}
	return providers, nil
}

func decodeJSON(data []byte) ([]models.Provider, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var providers []models.Provider
		err := json.Unmarshal(trimmed, &providers)
		return providers, err
	}
	var f File
	err := json.Unmarshal(trimmed, &f)
	return f.Providers, err
}

func decodeYAML(data []byte) ([]models.Provider, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return []models.Provider{}, nil
	}
	if node.Content[0].Kind == yaml.SequenceNode {
		var providers []models.Provider
		err := node.Content[0].Decode(&providers)
		return providers, err
	}
	var f File
	err := node.Content[0].Decode(&f)
	return f.Providers, err
}

func isDataset(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
