package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/flo/internal/ctxlog"
	"github.com/san-kum/flo/internal/graph"
)

// Workflow is the task graph declared by one flo.yaml.
type Workflow struct {
	ConfigPath string
	Root       string
	Tasks      []*Task

	byID    map[string]*Task
	creator map[string]*Task
	store   *StateStore
}

// Load parses the flo.yaml at path and links tasks through the resources
// they create and depend on.
func Load(ctx context.Context, path string) (*Workflow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raws, err := ParseTasks(f)
	if err != nil {
		return nil, err
	}
	w, err := New(filepath.Dir(path), raws)
	if err != nil {
		return nil, err
	}
	w.ConfigPath = path
	ctxlog.FromContext(ctx).Debug("workflow loaded", "config", path, "tasks", len(w.Tasks))
	return w, nil
}

// New builds a workflow rooted at root from parsed task attribute maps.
func New(root string, raws []map[string]any) (*Workflow, error) {
	w := &Workflow{
		Root:    root,
		Tasks:   make([]*Task, 0, len(raws)),
		byID:    make(map[string]*Task),
		creator: make(map[string]*Task),
		store:   NewStateStore(root),
	}
	for _, raw := range raws {
		t, err := newTask(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := w.byID[t.Creates]; dup {
			return nil, fmt.Errorf("%w: `creates` %q is declared twice", ErrNonUniqueTask, t.Creates)
		}
		w.byID[t.Creates] = t
		w.Tasks = append(w.Tasks, t)
		if !t.IsPseudotask() {
			w.creator[t.Creates] = t
		}
	}

	w.dereferenceAliases()
	for _, t := range w.Tasks {
		for _, d := range t.Depends {
			if up, ok := w.creator[d]; ok && up != t {
				t.addUpstream(up)
			}
		}
	}
	return w, nil
}

// dereferenceAliases replaces every alias used in depends with the creates
// of the aliased task.
func (w *Workflow) dereferenceAliases() {
	aliases := make(map[string]string)
	for _, t := range w.Tasks {
		if t.Alias != "" {
			if _, seen := aliases[t.Alias]; !seen {
				aliases[t.Alias] = t.Creates
			}
		}
	}
	for _, t := range w.Tasks {
		changed := false
		for i, d := range t.Depends {
			if creates, ok := aliases[d]; ok {
				t.Depends[i] = creates
				changed = true
			}
		}
		if changed {
			t.Attrs["depends"] = dependsAttr(t.Depends)
		}
	}
}

// dependsAttr keeps the scalar-or-list shape depends was written with.
func dependsAttr(d []string) any {
	if len(d) == 1 {
		return d[0]
	}
	out := make([]any, len(d))
	for i, s := range d {
		out[i] = s
	}
	return out
}

func (w *Workflow) Task(id string) (*Task, bool) {
	t, ok := w.byID[id]
	return t, ok
}

func (w *Workflow) States() *StateStore { return w.store }

// Order returns every task breadth-first from the tasks with no upstream
// task, in declaration order. Tasks only reachable through a cycle follow.
func (w *Workflow) Order() []*Task {
	var queue []*Task
	queued := make(map[*Task]bool, len(w.Tasks))
	for _, t := range w.Tasks {
		if len(t.upstream) == 0 {
			queue = append(queue, t)
			queued[t] = true
		}
	}

	order := make([]*Task, 0, len(w.Tasks))
	visit := func() {
		for len(queue) > 0 {
			t := queue[0]
			queue = queue[1:]
			order = append(order, t)
			for _, d := range t.downstream {
				if !queued[d] {
					queued[d] = true
					queue = append(queue, d)
				}
			}
		}
	}
	visit()
	for _, t := range w.Tasks {
		if !queued[t] {
			queued[t] = true
			queue = append(queue, t)
			visit()
		}
	}
	return order
}

func (w *Workflow) resourcePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.Root, name)
}

// InSync reports whether t would be skipped by a run: its creates exists,
// its definition is unchanged since the last recorded run and so is every
// resource it depends on.
func (w *Workflow) InSync(t *Task, stored map[string]string) (bool, error) {
	if _, err := os.Stat(w.resourcePath(t.Creates)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if stored[t.ConfigResourceID()] != t.State() {
		return false, nil
	}
	for _, d := range t.Depends {
		current, err := ResourceState(w.resourcePath(d))
		if err != nil {
			return false, fmt.Errorf("state of %s: %w", d, err)
		}
		if stored[d] != current {
			return false, nil
		}
	}
	return true, nil
}

// Graph computes the sync state of every task and returns the status graph:
// one node per task in Order, one link per upstream/downstream pair.
func (w *Workflow) Graph(ctx context.Context) (*graph.Graph, error) {
	stored, err := w.store.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", w.store.Path(), err)
	}

	logger := ctxlog.FromContext(ctx)
	order := w.Order()
	index := make(map[*Task]int, len(order))
	nodes := make([]graph.Node, 0, len(order))
	for i, t := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inSync, err := w.InSync(t, stored)
		if err != nil {
			return nil, err
		}
		logger.Debug("task state", "task", t.ID(), "in_sync", inSync)
		index[t] = i
		nodes = append(nodes, graph.NewNode(t.ID(), inSync))
	}

	var links []graph.Link
	for _, t := range order {
		for _, d := range t.downstream {
			links = append(links, graph.Link{Source: index[t], Target: index[d]})
		}
	}
	return graph.New(nodes, links), nil
}

// SaveState records the current state of every task definition and every
// resource, keeping stored rows for names no longer in the workflow.
func (w *Workflow) SaveState(ctx context.Context) error {
	states, err := w.store.Read()
	if err != nil {
		return err
	}
	for _, t := range w.Tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		states[t.ConfigResourceID()] = t.State()
		names := append([]string(nil), t.Depends...)
		if !t.IsPseudotask() {
			names = append(names, t.Creates)
		}
		for _, name := range names {
			s, err := ResourceState(w.resourcePath(name))
			if err != nil {
				return fmt.Errorf("state of %s: %w", name, err)
			}
			states[name] = s
		}
	}
	if err := w.store.Write(states); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("workflow state saved", "path", w.store.Path(), "entries", len(states))
	return nil
}
