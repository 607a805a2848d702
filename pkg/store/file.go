package store

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/matzehuels/fontsmith/pkg/config"
	"github.com/matzehuels/fontsmith/pkg/errors"
)

// FileStore keeps the config of a single source directory in its
// config.json. The font name is only validated.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore returns a store for the source directory dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the config file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, config.FileName)
}

func (s *FileStore) Load(_ context.Context, name string) (*config.Config, error) {
	if err := errors.ValidateFontName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return config.Load(s.Path())
}

func (s *FileStore) Save(_ context.Context, name string, cfg *config.Config) error {
	if err := errors.ValidateFontName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := config.Save(s.Path(), cfg); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save %s", s.Path())
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
