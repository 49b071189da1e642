package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const pipelineYAML = `---
data_dir: data
tasks:
  - creates: data/raw.txt
    command: echo raw > data/raw.txt
    alias: raw
  - creates: data/clean.txt
    depends: raw
    command: sort data/raw.txt > data/clean.txt
  - creates: report.txt
    depends:
      - data/clean.txt
      - data/raw.txt
    command:
      - wc -l data/clean.txt > report.txt
      - cat data/raw.txt >> report.txt
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func loadPipeline(t *testing.T) (*Workflow, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFilename), pipelineYAML)
	w, err := Load(context.Background(), filepath.Join(root, ConfigFilename))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return w, root
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFilename), pipelineYAML)
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	path, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	want, _ := filepath.Abs(filepath.Join(root, ConfigFilename))
	if path != want {
		t.Errorf("expected %s, got %s", want, path)
	}
}

func TestFindConfigMissing(t *testing.T) {
	_, err := FindConfig(t.TempDir())
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestParseTasksGlobals(t *testing.T) {
	in := `---
owner: ops
tasks:
  - creates: a
  - creates: b
    owner: data
---
creates: ignored
`
	tasks, err := ParseTasks(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0]["owner"] != "ops" {
		t.Errorf("expected global owner on a, got %v", tasks[0]["owner"])
	}
	if tasks[1]["owner"] != "data" {
		t.Errorf("expected task owner to win on b, got %v", tasks[1]["owner"])
	}
	if _, ok := tasks[0]["tasks"]; ok {
		t.Error("tasks key leaked into a task")
	}
}

func TestParseTasksDocuments(t *testing.T) {
	in := "creates: a\n---\ncreates: b\ndepends: a\n---\n"
	tasks, err := ParseTasks(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 || tasks[1]["depends"] != "a" {
		t.Errorf("unexpected tasks %v", tasks)
	}
}

func TestNewRejectsInvalidTasks(t *testing.T) {
	tests := []struct {
		name string
		raws []map[string]any
		want error
	}{
		{"missing creates", []map[string]any{{"command": "true"}}, ErrInvalidTask},
		{"numeric creates", []map[string]any{{"creates": 3}}, ErrInvalidTask},
		{"bad depends", []map[string]any{{"creates": "a", "depends": map[string]any{"x": 1}}}, ErrInvalidTask},
		{"bad command item", []map[string]any{{"creates": "a", "command": []any{"ok", 2}}}, ErrInvalidTask},
		{"duplicate", []map[string]any{{"creates": "a"}, {"creates": "a"}}, ErrNonUniqueTask},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(t.TempDir(), tt.raws)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTaskErrorShowsTask(t *testing.T) {
	_, err := New(t.TempDir(), []map[string]any{{"command": "make"}})
	if err == nil || !strings.Contains(err.Error(), "command: make") {
		t.Errorf("expected offending yaml in %v", err)
	}
}

func TestAliasesAndOrder(t *testing.T) {
	w, _ := loadPipeline(t)

	clean, ok := w.Task("data/clean.txt")
	if !ok {
		t.Fatal("missing clean task")
	}
	if clean.Depends[0] != "data/raw.txt" {
		t.Errorf("alias not dereferenced: %v", clean.Depends)
	}
	if len(clean.Upstream()) != 1 || clean.Upstream()[0].ID() != "data/raw.txt" {
		t.Errorf("unexpected upstream %v", clean.Upstream())
	}

	var ids []string
	for _, task := range w.Order() {
		ids = append(ids, task.ID())
	}
	if got := strings.Join(ids, ","); got != "data/raw.txt,data/clean.txt,report.txt" {
		t.Errorf("unexpected order %s", got)
	}
}

func TestPseudotask(t *testing.T) {
	w, err := New(t.TempDir(), []map[string]any{
		{"creates": "a", "command": "touch a"},
		{"creates": "all", "depends": "a"},
	})
	if err != nil {
		t.Fatal(err)
	}
	all, _ := w.Task("all")
	if !all.IsPseudotask() {
		t.Error("expected task without command to be a pseudotask")
	}
	if len(all.Upstream()) != 1 {
		t.Error("expected pseudotask to depend on a")
	}
}

func TestGraphLinks(t *testing.T) {
	w, _ := loadPipeline(t)

	g, err := w.Graph(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(g.Nodes))
	}
	want := map[[2]int]bool{{0, 1}: true, {0, 2}: true, {1, 2}: true}
	if len(g.Links) != len(want) {
		t.Fatalf("expected %d links, got %v", len(want), g.Links)
	}
	for _, l := range g.Links {
		if !want[[2]int{l.Source, l.Target}] {
			t.Errorf("unexpected link %v", l)
		}
	}
	for _, n := range g.Nodes {
		if n.InSync {
			t.Errorf("%s should not be in sync before any run", n.TaskID)
		}
	}
}

func TestInSyncTracksEdits(t *testing.T) {
	w, root := loadPipeline(t)
	ctx := context.Background()

	writeFile(t, filepath.Join(root, "data", "raw.txt"), "b\na\n")
	writeFile(t, filepath.Join(root, "data", "clean.txt"), "a\nb\n")
	writeFile(t, filepath.Join(root, "report.txt"), "2\n")
	if err := w.SaveState(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	g, err := w.Graph(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range g.Nodes {
		if !n.InSync {
			t.Errorf("%s should be in sync after saving state", n.TaskID)
		}
	}

	writeFile(t, filepath.Join(root, "data", "raw.txt"), "c\n")
	g, err = w.Graph(ctx)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]bool{}
	for _, n := range g.Nodes {
		got[n.TaskID] = n.InSync
	}
	if !got["data/raw.txt"] {
		t.Error("raw has no dependencies and should stay in sync")
	}
	if got["data/clean.txt"] || got["report.txt"] {
		t.Errorf("tasks depending on raw should be out of sync: %v", got)
	}
}

func TestInSyncDefinitionChange(t *testing.T) {
	w, root := loadPipeline(t)
	ctx := context.Background()
	writeFile(t, filepath.Join(root, "data", "raw.txt"), "x\n")
	if err := w.SaveState(ctx); err != nil {
		t.Fatal(err)
	}

	raw, _ := w.Task("data/raw.txt")
	before := raw.State()
	raw.Attrs["data_dir"] = "elsewhere"
	if raw.State() == before {
		t.Fatal("expected attribute change to change the task state")
	}
	stored, err := w.States().Read()
	if err != nil {
		t.Fatal(err)
	}
	ok, err := w.InSync(raw, stored)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("changed definition should be out of sync")
	}
}

func TestResourceState(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.txt")
	writeFile(t, file, "hello")

	s, err := ResourceState(file)
	if err != nil {
		t.Fatal(err)
	}
	if s != "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d" {
		t.Errorf("unexpected sha1 %s", s)
	}

	missing, err := ResourceState(filepath.Join(root, "nope"))
	if err != nil || missing != "" {
		t.Errorf("expected empty state for missing path, got %q, %v", missing, err)
	}

	dir := filepath.Join(root, "d")
	writeFile(t, filepath.Join(dir, "one"), "1")
	d1, err := ResourceState(dir)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "sub", "two"), "2")
	d2, err := ResourceState(dir)
	if err != nil {
		t.Fatal(err)
	}
	if d1 == "" || d1 == d2 {
		t.Errorf("directory state should change with its contents: %s, %s", d1, d2)
	}
}

func TestStateStoreRoundTrip(t *testing.T) {
	s := NewStateStore(t.TempDir())

	empty, err := s.Read()
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty store, got %v, %v", empty, err)
	}

	in := map[string]string{"config:a": "abc", "a": "", "b,c": "def"}
	if err := s.Write(in); err != nil {
		t.Fatal(err)
	}
	out, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range in {
		if out[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, out[k])
		}
	}
}
