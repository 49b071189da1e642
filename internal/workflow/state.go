package workflow

import (
	"encoding/csv"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

const (
	InternalsDir = ".flo"
	stateFile    = "state.csv"
)

// StateStore reads and writes the name,state rows of .flo/state.csv.
type StateStore struct {
	path string
}

func NewStateStore(root string) *StateStore {
	return &StateStore{path: filepath.Join(root, InternalsDir, stateFile)}
}

func (s *StateStore) Path() string { return s.path }

// Read returns every stored state. A missing file is an empty store.
func (s *StateStore) Read() (map[string]string, error) {
	states := make(map[string]string)
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return states, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		if len(rec) == 1 {
			states[rec[0]] = ""
			continue
		}
		states[rec[0]] = rec[1]
	}
	return states, nil
}

// Write replaces the store with states, one row per name in sorted order.
func (s *StateStore) Write(states map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	names := make([]string, 0, len(states))
	for name := range states {
		names = append(names, name)
	}
	sort.Strings(names)

	w := csv.NewWriter(f)
	for _, name := range names {
		if err := w.Write([]string{name, states[name]}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
