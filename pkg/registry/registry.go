// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRegistry(data)
}

func ParseRegistry(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse activity registry: %w", err)
	}
	return &reg, nil
}

// Lookup returns the activity registered for taskType.
func (r *ActivityRegistry) Lookup(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// CompileInputSchema compiles the activity's input schema. A nil schema
// means the activity accepts any variables.
func (a Activity) CompileInputSchema() (*gojsonschema.Schema, error) {
	if len(a.InputSchema) == 0 {
		return nil, nil
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
	if err != nil {
		return nil, fmt.Errorf("activity %s: invalid input schema: %w", a.ID, err)
	}
	return schema, nil
}

// Problem is a single registry consistency issue.
type Problem struct {
	ActivityID string `json:"activityId"`
	Message    string `json:"message"`
}

// Check verifies that every activity has a unique task type, a compilable
// input schema, a parseable timeout, a non-negative retry count and a known
// implementation status.
func (r *ActivityRegistry) Check() []Problem {
	var problems []Problem
	seen := make(map[string]string, len(r.Activities))

	for _, a := range r.Activities {
		switch {
		case a.TaskType == "":
			problems = append(problems, Problem{ActivityID: a.ID, Message: "missing taskType"})
		case seen[a.TaskType] != "":
			problems = append(problems, Problem{
				ActivityID: a.ID,
				Message:    fmt.Sprintf("taskType %s already registered by %s", a.TaskType, seen[a.TaskType]),
			})
		default:
			seen[a.TaskType] = a.ID
		}

		if _, err := a.CompileInputSchema(); err != nil {
			problems = append(problems, Problem{ActivityID: a.ID, Message: err.Error()})
		}
		if _, err := a.TimeoutDuration(); err != nil {
			problems = append(problems, Problem{ActivityID: a.ID, Message: err.Error()})
		}
		if a.Retries < 0 {
			problems = append(problems, Problem{ActivityID: a.ID, Message: fmt.Sprintf("negative retries %d", a.Retries)})
		}
		if !validStatus(a.ImplementationStatus) {
			problems = append(problems, Problem{ActivityID: a.ID, Message: fmt.Sprintf("unknown implementationStatus %q", a.ImplementationStatus)})
		}
	}
	return problems
}
