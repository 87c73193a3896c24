package positions

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v4"

	"github.com/matzehuels/issuegraph/pkg/observability"
)

// BadgerStore keeps records in an embedded Badger database.
type BadgerStore struct {
	db     *badger.DB
	logger *log.Logger
}

// NewBadgerStore opens or creates the database at path.
// If path is empty, defaults to ~/.config/issuegraph/badger/
func NewBadgerStore(path string, logger *log.Logger) (*BadgerStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		path = filepath.Join(home, ".config", "issuegraph", "badger")
	}
	opts := badger.DefaultOptions(path).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger DB: %w", err)
	}
	return &BadgerStore{db: db, logger: orDefault(logger)}, nil
}

func (s *BadgerStore) Load(ctx context.Context, project string) (*Record, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(StorageKey(project)))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return decodeLoaded(ctx, BackendBadger, project, nil, false, s.logger), nil
	}
	if err != nil {
		return nil, fmt.Errorf("badger get positions: %w", err)
	}
	return decodeLoaded(ctx, BackendBadger, project, data, true, s.logger), nil
}

func (s *BadgerStore) Save(ctx context.Context, project string, r *Record) error {
	data, err := encodeForSave(project, r)
	if err == nil {
		err = s.db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(StorageKey(project)), data)
		})
	}
	observability.Store().OnSave(ctx, BackendBadger, len(data), err)
	if err != nil {
		return fmt.Errorf("badger set positions: %w", err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BadgerStore)(nil)
