package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOSReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	data, err := OS{}.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)

	_, err = OS{}.ReadFile(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDirWrite(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	d, err := NewDir(root)
	require.NoError(t, err)
	require.Equal(t, root, d.Root())

	require.NoError(t, d.Write("session-1/file-0001.bin", []byte{1, 2, 3}))
	data, err := os.ReadFile(filepath.Join(root, "session-1", "file-0001.bin"))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)

	require.ErrorIs(t, d.Write("../escape.bin", nil), ErrInvalidName)
	require.ErrorIs(t, d.Write("", nil), ErrInvalidName)
	require.ErrorIs(t, d.Write("/abs.bin", nil), ErrInvalidName)
}

func TestDiscard(t *testing.T) {
	var s Sink = Discard{}
	require.NoError(t, s.Write("anything", []byte("x")))
}
