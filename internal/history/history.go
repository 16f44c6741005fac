// Package history persists reading positions between sessions.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Position is a reading position inside a publication.
type Position struct {
	Chapter int `yaml:"chapter"`
	Line    int `yaml:"line"`
}

// Store maps publication paths to their last reading position. It is
// loaded once and written back explicitly with Save.
type Store struct {
	path      string
	positions map[string]Position
}

// Load reads the history file at path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	s := &Store{path: path, positions: make(map[string]Position)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.positions); err != nil {
		return nil, fmt.Errorf("failed to parse history %s: %w", path, err)
	}
	if s.positions == nil {
		s.positions = make(map[string]Position)
	}
	return s, nil
}

// Get returns the stored position for a publication.
func (s *Store) Get(book string) (Position, bool) {
	p, ok := s.positions[key(book)]
	return p, ok
}

// Set records the position for a publication.
func (s *Store) Set(book string, p Position) {
	s.positions[key(book)] = p
}

// Save writes the store back to its file, replacing it atomically.
func (s *Store) Save() (err error) {
	data, err := yaml.Marshal(s.positions)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	_, err = tmp.Write(data)
	if err = multierr.Append(err, tmp.Close()); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// key makes relative and absolute spellings of one file share an entry.
func key(book string) string {
	if abs, err := filepath.Abs(book); err == nil {
		return abs
	}
	return book
}
