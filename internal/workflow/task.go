package workflow

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Task is one entry of flo.yaml. Its id is the path it creates.
type Task struct {
	Creates string
	Depends []string
	// Command is nil for pseudotasks.
	Command []string
	Alias   string
	// Attrs holds every key except command, with creates and depends as
	// resolved.
	Attrs map[string]any

	upstream   []*Task
	downstream []*Task
}

func newTask(raw map[string]any) (*Task, error) {
	creates, ok := raw["creates"].(string)
	if !ok || creates == "" {
		return nil, &TaskError{Reason: "every task must define a `creates`", Task: raw, Wrapped: ErrInvalidTask}
	}
	depends, err := stringList(raw["depends"])
	if err != nil {
		return nil, &TaskError{Reason: "`depends` " + err.Error(), Task: raw, Wrapped: ErrInvalidTask}
	}
	command, err := stringList(raw["command"])
	if err != nil {
		return nil, &TaskError{Reason: "`command` " + err.Error(), Task: raw, Wrapped: ErrInvalidTask}
	}

	t := &Task{
		Creates: creates,
		Depends: depends,
		Command: command,
		Attrs:   make(map[string]any, len(raw)),
	}
	if alias, ok := raw["alias"]; ok {
		s, ok := alias.(string)
		if !ok {
			return nil, &TaskError{Reason: "`alias` must be a string", Task: raw, Wrapped: ErrInvalidTask}
		}
		t.Alias = s
	}
	for k, v := range raw {
		if k != "command" {
			t.Attrs[k] = v
		}
	}
	return t, nil
}

// stringList accepts nil, a string, or a list of strings.
func stringList(v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{x}, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("must contain only strings, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a string or a list of strings, got %T", v)
	}
}

func (t *Task) ID() string { return t.Creates }

// ConfigResourceID names the stored state of the task definition itself.
func (t *Task) ConfigResourceID() string { return "config:" + t.Creates }

func (t *Task) IsPseudotask() bool { return t.Command == nil }

func (t *Task) Upstream() []*Task   { return t.upstream }
func (t *Task) Downstream() []*Task { return t.downstream }

// State hashes the task definition: creates, depends, command and every
// attribute in key order.
func (t *Task) State() string {
	var sb strings.Builder
	sb.WriteString(t.Creates)
	sb.WriteString(fmt.Sprint(t.Depends))
	sb.WriteString(fmt.Sprint(t.Command))

	keys := make([]string, 0, len(t.Attrs))
	for k := range t.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString(fmt.Sprint(t.Attrs[k]))
	}

	sum := sha1.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

func (t *Task) addUpstream(up *Task) {
	for _, u := range t.upstream {
		if u == up {
			return
		}
	}
	t.upstream = append(t.upstream, up)
	up.downstream = append(up.downstream, t)
}
