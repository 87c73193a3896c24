package positions

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/issuegraph/pkg/diagram"
	"github.com/matzehuels/issuegraph/pkg/errors"
	"github.com/matzehuels/issuegraph/pkg/observability"
)

// testStore runs the behaviour every backend shares.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("MissingIsEmpty", func(t *testing.T) {
		r, err := s.Load(ctx, "fresh")
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.Equal(t, 0, r.Len())
	})

	t.Run("SaveThenLoad", func(t *testing.T) {
		r := New()
		r.SetPosition("api", diagram.Point{X: 160, Y: 30})
		r.SetSide(diagram.ContainerID("api"), diagram.SideSouth)
		require.NoError(t, s.Save(ctx, "demo", r))

		got, err := s.Load(ctx, "demo")
		require.NoError(t, err)
		assert.Equal(t, diagram.Point{X: 160, Y: 30}, got.Nodes["api"])
		assert.Equal(t, diagram.SideSouth, got.IssueGroups[diagram.ContainerID("api")])
	})

	t.Run("Overwrite", func(t *testing.T) {
		r := New()
		r.SetPosition("api", diagram.Point{X: 1, Y: 1})
		require.NoError(t, s.Save(ctx, "demo", r))

		got, err := s.Load(ctx, "demo")
		require.NoError(t, err)
		assert.Equal(t, diagram.Point{X: 1, Y: 1}, got.Nodes["api"])
		assert.Empty(t, got.IssueGroups)
	})

	t.Run("ProjectsAreIsolated", func(t *testing.T) {
		got, err := s.Load(ctx, "other")
		require.NoError(t, err)
		assert.Equal(t, 0, got.Len())
	})

	t.Run("InvalidProject", func(t *testing.T) {
		err := s.Save(ctx, "../escape", New())
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidProject))
	})
}

type recoveredHooks struct {
	observability.NoopStoreHooks
	recovered []string
}

func (h *recoveredHooks) OnRecovered(_ context.Context, backend string, _ error) {
	h.recovered = append(h.recovered, backend)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore(nil))
}

func TestMemoryStore_Malformed(t *testing.T) {
	hooks := &recoveredHooks{}
	observability.SetStoreHooks(hooks)
	t.Cleanup(observability.Reset)

	s := NewMemoryStore(nil)
	s.Put("demo", []byte(`{"nodes":`))

	r, err := s.Load(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, []string{BackendMemory}, hooks.recovered)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)
	testStore(t, s)
}

func TestFileStore_Malformed(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.json"), []byte("not json"), 0o600))

	r, err := s.Load(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())

	// A save replaces the corrupt file.
	r.SetPosition("api", diagram.Point{X: 5, Y: 5})
	require.NoError(t, s.Save(context.Background(), "demo", r))
	r, err = s.Load(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
}

func TestBadgerStore(t *testing.T) {
	s, err := NewBadgerStore(filepath.Join(t.TempDir(), "badger"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	testStore(t, s)
}

func TestBadgerStore_Malformed(t *testing.T) {
	s, err := NewBadgerStore(filepath.Join(t.TempDir(), "badger"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(StorageKey("demo")), []byte(`{"issueGroups":{"c":"sideways"}}`))
	}))

	r, err := s.Load(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("ISSUEGRAPH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ISSUEGRAPH_TEST_REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), addr, 15, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	testStore(t, s)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("ISSUEGRAPH_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ISSUEGRAPH_TEST_MONGO_URI not set")
	}
	s, err := NewMongoStore(context.Background(), uri, "issuegraph_test", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Backend: BackendFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, Options{Backend: "etcd"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}
