package workflow

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrConfigNotFound = errors.New("workflow: flo.yaml not found")
	ErrInvalidTask    = errors.New("workflow: invalid task definition")
	ErrNonUniqueTask  = errors.New("workflow: task is not unique")
)

// TaskError reports a task definition that could not be loaded, together
// with the offending YAML.
type TaskError struct {
	Reason  string
	Task    map[string]any
	Wrapped error
}

func (e *TaskError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%v: %s", e.Wrapped, e.Reason))
	if len(e.Task) > 0 {
		if out, err := yaml.Marshal(e.Task); err == nil {
			sb.WriteString("; offending task:\n\n")
			sb.Write(out)
		}
	}
	return sb.String()
}

func (e *TaskError) Unwrap() error {
	return e.Wrapped
}
