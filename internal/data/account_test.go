package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccountStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")

	s, err := openAccountStore(path)
	require.NoError(t, err)

	_, ok := s.Load("Alice       ")
	require.False(t, ok)

	s.Set("Alice       ", 1250)
	s.Set("Bob         ", 4)
	require.NoError(t, s.Flush())

	reopened, err := openAccountStore(path)
	require.NoError(t, err)
	cash, ok := reopened.Load("Alice       ")
	require.True(t, ok)
	require.Equal(t, int64(1250), cash)
	cash, ok = reopened.Load("Bob         ")
	require.True(t, ok)
	require.Equal(t, int64(4), cash)
}

func TestMissingAccountFileMeansNoAccounts(t *testing.T) {
	s, err := openAccountStore(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	_, ok := s.Load("Anyone      ")
	require.False(t, ok)
}

func TestCorruptAccountFileFailsLoudly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := openAccountStore(path)
	require.Error(t, err)
}

func TestFlushOverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	s, err := openAccountStore(path)
	require.NoError(t, err)

	s.Set("Alice       ", 10)
	require.NoError(t, s.Flush())
	s.Set("Alice       ", 20)
	require.NoError(t, s.Flush())

	reopened, err := openAccountStore(path)
	require.NoError(t, err)
	cash, _ := reopened.Load("Alice       ")
	require.Equal(t, int64(20), cash)

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err), "temp file should be renamed away")
}
