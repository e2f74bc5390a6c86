package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/valpere/reword/internal"
)

// FileStore keeps the record as a JSON file. Writes go to a temporary file
// that is renamed over the target.
type FileStore struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

func NewFile(path string, log *zap.Logger) *FileStore {
	return &FileStore{path: path, log: nopIfNil(log)}
}

// Path returns the file the record is stored in.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(_ context.Context) internal.Configuration {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return internal.DefaultConfiguration()
	}
	if err != nil {
		s.log.Warn("using default configuration", zap.String("path", s.path), zap.Error(err))
		return internal.DefaultConfiguration()
	}

	c, err := decode(data)
	if err != nil {
		s.log.Warn("using default configuration", zap.String("path", s.path), zap.Error(err))
		return internal.DefaultConfiguration()
	}
	return c
}

func (s *FileStore) Save(_ context.Context, c internal.Configuration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeAtomic(c); err != nil {
		s.log.Warn("failed to save configuration", zap.String("path", s.path), zap.Error(err))
	}
}

func (s *FileStore) writeAtomic(c internal.Configuration) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := encode(c)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
