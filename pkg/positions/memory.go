package positions

import (
	"context"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/issuegraph/pkg/observability"
)

// MemoryStore keeps encoded records in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	logger *log.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(logger *log.Logger) *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte), logger: orDefault(logger)}
}

func (s *MemoryStore) Load(ctx context.Context, project string) (*Record, error) {
	s.mu.RLock()
	data, ok := s.data[StorageKey(project)]
	s.mu.RUnlock()
	return decodeLoaded(ctx, BackendMemory, project, data, ok, s.logger), nil
}

func (s *MemoryStore) Save(ctx context.Context, project string, r *Record) error {
	data, err := encodeForSave(project, r)
	observability.Store().OnSave(ctx, BackendMemory, len(data), err)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[StorageKey(project)] = data
	s.mu.Unlock()
	return nil
}

// Put stores raw bytes under a project, bypassing encoding.
// Used to seed stores from other sources.
func (s *MemoryStore) Put(project string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[StorageKey(project)] = slices.Clone(data)
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
