// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/validation"
)

//go:embed activity-registry.json
var defaultRegistry []byte

// Default returns the registry compiled into the binary.
func Default() (*ActivityRegistry, error) {
	return Parse(defaultRegistry)
}

// LoadRegistry reads a registry file. An empty path yields Default.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	return &reg, nil
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// TaskTypes lists registered task types in file order.
func (r *ActivityRegistry) TaskTypes() []string {
	types := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		types = append(types, a.TaskType)
	}
	return types
}

// Validate checks required fields, id and task type uniqueness, the
// domain.subdomain.action naming and that every schema compiles.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if err := validation.ValidateActivityNaming(activity.ID); err != nil {
			return fmt.Errorf("activity %s: %w", activity.ID, err)
		}
		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true

		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}
		if activity.Timeout != "" {
			if _, err := time.ParseDuration(activity.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout %q", activity.ID, activity.Timeout)
			}
		}
		for name, schema := range map[string]map[string]interface{}{"input": activity.InputSchema, "output": activity.OutputSchema} {
			if len(schema) == 0 {
				continue
			}
			raw, err := json.Marshal(schema)
			if err != nil {
				return fmt.Errorf("activity %s %s schema: %w", activity.ID, name, err)
			}
			if err := validation.CheckSchema(raw); err != nil {
				return fmt.Errorf("activity %s %s schema: %w", activity.ID, name, err)
			}
		}
	}
	return nil
}

// ValidateInput checks job variables against the input schema of taskType.
// Activities without an input schema accept anything.
func (r *ActivityRegistry) ValidateInput(taskType string, input interface{}) error {
	activity, ok := r.Find(taskType)
	if !ok {
		return apperrors.NewInvalidJobInputError(fmt.Sprintf("no activity registered for task type %q", taskType))
	}
	if len(activity.InputSchema) == 0 {
		return nil
	}

	schema, err := json.Marshal(activity.InputSchema)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	result, err := validation.ValidateInput(input, schema)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if result.Valid {
		return nil
	}

	stdErr := apperrors.NewInvalidJobInputError(strings.Join(result.GetErrorMessages(), "; "))
	stdErr.Metadata = map[string]interface{}{"fields": result.Errors}
	return stdErr
}

// Update sets one field of the activity with id.
func (r *ActivityRegistry) Update(id, field, value string) error {
	i := slices.IndexFunc(r.Activities, func(a Activity) bool { return a.ID == id })
	if i < 0 {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	a := &r.Activities[i]
	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "category":
		a.Category = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return nil
}

// Save writes the registry as indented JSON, creating parent directories.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
