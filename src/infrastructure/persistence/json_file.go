// Package persistence implements domain.GoalPersister backends.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"goal-app/src/domain"

	"github.com/sirupsen/logrus"
)

// JSONFilePersister keeps the collection as an indented JSON array in one file
type JSONFilePersister struct {
	path   string
	logger *logrus.Logger
}

// NewJSONFilePersister creates a persister writing to path
func NewJSONFilePersister(path string, logger *logrus.Logger) *JSONFilePersister {
	return &JSONFilePersister{path: path, logger: logger}
}

// Path returns the data file location
func (p *JSONFilePersister) Path() string {
	return p.path
}

// Load reads the data file. A missing file is a first run: an empty
// collection is written and returned.
func (p *JSONFilePersister) Load(ctx context.Context) ([]domain.Goal, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		p.logger.WithField("file", p.path).Info("data file not found, initializing empty storage")
		if err := p.Save(ctx, []domain.Goal{}); err != nil {
			return nil, err
		}
		return []domain.Goal{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.path, err)
	}

	var goals []domain.Goal
	if err := json.Unmarshal(data, &goals); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", p.path, err)
	}
	if goals == nil {
		goals = []domain.Goal{}
	}
	return goals, nil
}

// Save writes goals to a temp file and renames it over the data file
func (p *JSONFilePersister) Save(ctx context.Context, goals []domain.Goal) error {
	if goals == nil {
		goals = []domain.Goal{}
	}
	data, err := json.MarshalIndent(goals, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode goals: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", p.path, err)
	}
	return nil
}
