package ops

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/sift/internal/config"
	"github.com/hpungsan/sift/internal/store"
	"github.com/hpungsan/sift/internal/store/badgerstore"
)

// testConfig returns defaults rooted at a fresh home with an exports dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.BaseDir = t.TempDir()
	require.NoError(t, os.MkdirAll(cfg.ExportsDir(), 0700))
	return cfg
}

// openTestStore opens the SQLite store under cfg.BaseDir.
func openTestStore(t *testing.T, cfg *config.Config) store.Store {
	t.Helper()
	st, err := store.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// newTestStore is openTestStore on a throwaway config.
func newTestStore(t *testing.T) store.Store {
	t.Helper()
	return openTestStore(t, testConfig(t))
}

// newBadgerTestStore is an in-memory badger store.
func newBadgerTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := badgerstore.Open(badgerstore.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// writeFile writes body to path with private permissions.
func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
}
