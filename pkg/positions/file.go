package positions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/issuegraph/pkg/errors"
	"github.com/matzehuels/issuegraph/pkg/observability"
)

// FileStore keeps one JSON file per project in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	logger  *log.Logger
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/issuegraph/positions/
func NewFileStore(baseDir string, logger *log.Logger) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "issuegraph", "positions")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create positions dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, logger: orDefault(logger)}, nil
}

func (s *FileStore) recordPath(project string) string {
	return filepath.Join(s.baseDir, project+".json")
}

func (s *FileStore) Load(ctx context.Context, project string) (*Record, error) {
	if err := errors.ValidateProject(project); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.recordPath(project))
	if err != nil {
		if os.IsNotExist(err) {
			return decodeLoaded(ctx, BackendFile, project, nil, false, s.logger), nil
		}
		return nil, fmt.Errorf("read positions file: %w", err)
	}
	return decodeLoaded(ctx, BackendFile, project, data, true, s.logger), nil
}

func (s *FileStore) Save(ctx context.Context, project string, r *Record) error {
	data, err := encodeForSave(project, r)
	if err != nil {
		observability.Store().OnSave(ctx, BackendFile, 0, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.recordPath(project)
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err == nil {
		err = os.Rename(tmp, path)
	}
	observability.Store().OnSave(ctx, BackendFile, len(data), err)
	if err != nil {
		return fmt.Errorf("write positions file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for position files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
