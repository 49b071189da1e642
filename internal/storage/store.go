package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/san-kum/flo/internal/graph"
	"github.com/san-kum/flo/internal/layout"
)

const (
	IDPrefix   = "lay-"
	idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength   = 10

	metadataFile  = "metadata.json"
	positionsFile = "positions.csv"
)

var ErrSnapshotNotFound = errors.New("storage: layout snapshot not found")

// Store keeps settled layouts, one directory per snapshot.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Metadata struct {
	ID        string             `json:"id"`
	Workflow  string             `json:"workflow"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Ticks     int                `json:"ticks"`
	Nodes     int                `json:"nodes"`
	Links     int                `json:"links"`
	Synced    int                `json:"synced"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Position is the stored location of one task's node.
type Position struct {
	TaskID string
	X, Y   float64
	Pinned bool
}

// NewID returns a fresh snapshot id such as "lay-V1StGXR8Z5".
func NewID() (string, error) {
	id, err := nanoid.Generate(idAlphabet, idLength)
	if err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	return IDPrefix + id, nil
}

// Save writes the placed nodes of g under a new snapshot id. ID, Timestamp,
// Nodes, Links and Synced are filled in from g.
func (s *Store) Save(meta Metadata, g *graph.Graph) (string, error) {
	id, err := NewID()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	counts := g.Counts()
	meta.ID = id
	meta.Timestamp = time.Now()
	meta.Nodes = len(g.Nodes)
	meta.Links = len(g.Links)
	meta.Synced = counts[graph.Synced]

	metaFile, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(dir, positionsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"task_id", "x", "y", "pinned"}); err != nil {
		return "", err
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !n.Placed() {
			continue
		}
		row := []string{
			n.TaskID,
			strconv.FormatFloat(n.X, 'f', 6, 64),
			strconv.FormatFloat(n.Y, 'f', 6, 64),
			strconv.FormatBool(n.Fixed&layout.FixedPinned != 0),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return id, nil
}

// List returns every readable snapshot, oldest first.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	snaps := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		snaps = append(snaps, *meta)
	}
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].Timestamp.Before(snaps[j].Timestamp)
	})
	return snaps, nil
}

// Latest returns the newest snapshot, optionally restricted to one
// workflow. An empty workflow matches any.
func (s *Store) Latest(workflow string) (*Metadata, error) {
	snaps, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := len(snaps) - 1; i >= 0; i-- {
		if workflow == "" || snaps[i].Workflow == workflow {
			return &snaps[i], nil
		}
	}
	return nil, ErrSnapshotNotFound
}

func (s *Store) Load(id string) (*Metadata, error) {
	dir, err := s.dir(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	return &meta, nil
}

// LoadPositions returns the stored positions of snapshot id keyed by task id.
func (s *Store) LoadPositions(id string) (map[string]Position, error) {
	dir, err := s.dir(id)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, positionsFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	positions := make(map[string]Position, len(records))
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 3 {
			continue
		}
		x, errX := strconv.ParseFloat(rec[1], 64)
		y, errY := strconv.ParseFloat(rec[2], 64)
		if errX != nil || errY != nil {
			continue
		}
		p := Position{TaskID: rec[0], X: x, Y: y}
		if len(rec) > 3 {
			p.Pinned, _ = strconv.ParseBool(rec[3])
		}
		positions[p.TaskID] = p
	}
	return positions, nil
}

// Delete removes snapshot id.
func (s *Store) Delete(id string) error {
	dir, err := s.dir(id)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return err
	}
	return os.RemoveAll(dir)
}

func (s *Store) dir(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: invalid id %q", ErrSnapshotNotFound, id)
	}
	return filepath.Join(s.baseDir, id), nil
}

// Apply seeds g with stored positions for tasks that still exist and
// returns how many nodes were placed. Pinned positions stay pinned.
func Apply(g *graph.Graph, positions map[string]Position) int {
	placed := 0
	for i := range g.Nodes {
		n := &g.Nodes[i]
		p, ok := positions[n.TaskID]
		if !ok {
			continue
		}
		n.X, n.Y = p.X, p.Y
		n.PX, n.PY = p.X, p.Y
		if p.Pinned {
			n.Fixed |= layout.FixedPinned
		}
		placed++
	}
	return placed
}
