package positions

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/issuegraph/pkg/errors"
	"github.com/matzehuels/issuegraph/pkg/observability"
)

// Store persists one record per project.
//
// Load returns an empty record when nothing has been saved yet or when the
// saved data is malformed. An error means the backend itself failed.
// Save must complete before it returns, so a following Load observes it.
type Store interface {
	Load(ctx context.Context, project string) (*Record, error)
	Save(ctx context.Context, project string, r *Record) error
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendBadger = "badger"
)

// Backends returns the accepted backend names.
func Backends() []string {
	return []string{BackendMemory, BackendFile, BackendRedis, BackendMongo, BackendBadger}
}

// Options configures [Open].
type Options struct {
	Backend string

	// Dir is the FileStore directory.
	Dir string

	RedisAddr string
	RedisDB   int

	MongoURI      string
	MongoDatabase string

	BadgerPath string

	Logger *log.Logger
}

// Open creates the store selected by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(opts.Logger), nil
	case BackendFile:
		return NewFileStore(opts.Dir, opts.Logger)
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisAddr, opts.RedisDB, opts.Logger)
	case BackendMongo:
		return NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase, opts.Logger)
	case BackendBadger:
		return NewBadgerStore(opts.BadgerPath, opts.Logger)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", opts.Backend)
	}
}

// decodeLoaded turns raw backend bytes into a record, failing closed.
func decodeLoaded(ctx context.Context, backend, project string, data []byte, found bool, logger *log.Logger) *Record {
	observability.Store().OnLoad(ctx, backend, found)
	r, err := Decode(data)
	if err != nil {
		observability.Store().OnRecovered(ctx, backend, err)
		logger.Warn("discarding malformed positions", "project", project, "backend", backend, "err", err)
	}
	return r
}

// encodeForSave encodes r and validates the project name.
func encodeForSave(project string, r *Record) ([]byte, error) {
	if err := errors.ValidateProject(project); err != nil {
		return nil, err
	}
	data, err := Encode(r)
	if err != nil {
		return nil, fmt.Errorf("encode positions: %w", err)
	}
	return data, nil
}

func orDefault(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.Default()
	}
	return logger
}
