package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// fileCounter is the on-disk JSON document.
type fileCounter struct {
	Views     int64     `json:"views"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileStore keeps the counter in a JSON file on an afero filesystem.
type FileStore struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
	now  func() time.Time
}

var _ Store = (*FileStore)(nil)

// NewFileStore stores the counter at path on fs.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path, now: time.Now}
}

func (s *FileStore) Load(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read()
	if err != nil {
		return 0, err
	}
	return c.Views, nil
}

func (s *FileStore) Increment(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read()
	if err != nil {
		return 0, err
	}
	c.Views++
	if err := s.write(c); err != nil {
		return 0, err
	}
	return c.Views, nil
}

func (s *FileStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(fileCounter{})
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() (fileCounter, error) {
	var c fileCounter

	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("read views file %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("decode views file %s: %w", s.path, err)
	}
	return c, nil
}

// write replaces the file through a temporary sibling so readers never see a partial document.
func (s *FileStore) write(c fileCounter) error {
	c.UpdatedAt = s.now().UTC()
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create views directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write views file: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace views file: %w", err)
	}
	return nil
}
