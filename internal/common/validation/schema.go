// internal/common/validation/schema.go
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"provider-ranking-workers/pkg/registry"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (r *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return messages
}

// Validator checks job variables against the input schemas declared in the
// activity registry. Schemas are compiled once per task type.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

func NewValidator(reg *registry.ActivityRegistry) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema)}
	if reg == nil {
		return v, nil
	}
	for _, a := range reg.Activities {
		schema, err := a.CompileInputSchema()
		if err != nil {
			return nil, err
		}
		if schema != nil {
			v.schemas[a.TaskType] = schema
		}
	}
	return v, nil
}

// Validate reports whether variables match the task type's input schema.
// Task types without a registered schema always validate. A nil Validator
// accepts everything.
func (v *Validator) Validate(taskType string, variables []byte) (*ValidationResult, error) {
	if v == nil {
		return &ValidationResult{Valid: true}, nil
	}

	schema, ok := v.schemas[taskType]
	if !ok {
		return &ValidationResult{Valid: true}, nil
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(variables))
	if err != nil {
		return nil, fmt.Errorf("validate %s input: %w", taskType, err)
	}
	return toResult(result), nil
}

// ValidateInput validates a decoded document against an ad-hoc schema.
func ValidateInput(input interface{}, schema map[string]interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(input),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	return toResult(result), nil
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    e.Type(),
		})
	}
	return out
}
