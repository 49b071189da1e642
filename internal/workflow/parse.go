package workflow

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFilename = "flo.yaml"
	tasksKey       = "tasks"
)

// FindConfig looks for flo.yaml in dir and then in each parent directory.
func FindConfig(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for d := abs; ; d = filepath.Dir(d) {
		path := filepath.Join(d, ConfigFilename)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
		if filepath.Dir(d) == d {
			break
		}
	}
	return "", fmt.Errorf("%w in %s or any parent directory", ErrConfigNotFound, abs)
}

// ParseTasks reads every YAML document in r and returns one attribute map
// per task. When the first document has a "tasks" list, its remaining keys
// are global attributes merged into every task and later documents are
// ignored; otherwise each document is a task.
func ParseTasks(r io.Reader) ([]map[string]any, error) {
	dec := yaml.NewDecoder(r)
	var (
		tasks  []map[string]any
		global bool
	)
	for i := 0; ; i++ {
		var doc map[string]any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s document %d: %w", ConfigFilename, i, err)
		}
		if doc == nil {
			continue
		}

		if i == 0 {
			if list, ok := doc[tasksKey]; ok {
				global = true
				expanded, err := expandTasks(doc, list)
				if err != nil {
					return nil, err
				}
				tasks = append(tasks, expanded...)
				continue
			}
		}
		if !global {
			tasks = append(tasks, doc)
		}
	}
	return tasks, nil
}

// expandTasks merges the global keys of doc into each entry of list. Keys
// set on a task take precedence over globals.
func expandTasks(doc map[string]any, list any) ([]map[string]any, error) {
	items, ok := list.([]any)
	if !ok {
		return nil, &TaskError{Reason: "`tasks` must be a list", Wrapped: ErrInvalidTask}
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		task, ok := item.(map[string]any)
		if !ok {
			return nil, &TaskError{Reason: fmt.Sprintf("task must be a mapping, got %T", item), Wrapped: ErrInvalidTask}
		}
		merged := make(map[string]any, len(doc)+len(task))
		for k, v := range doc {
			if k != tasksKey {
				merged[k] = v
			}
		}
		for k, v := range task {
			merged[k] = v
		}
		out = append(out, merged)
	}
	return out, nil
}
