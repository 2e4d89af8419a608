package filelist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, src Source) []string {
	t.Helper()
	var out []string
	for {
		line, ok, err := src.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, line)
	}
}

func TestTrim(t *testing.T) {
	require.Equal(t, "a.txt", Trim("a.txt\r\n"))
	require.Equal(t, "a.txt", Trim("a.txt \t\x00"))
	require.Equal(t, "my file.txt", Trim("my file.txt\n"))
	require.Equal(t, "  lead", Trim("  lead"))
	require.Equal(t, "", Trim(" \n"))
}

func TestScanner(t *testing.T) {
	s := New(strings.NewReader("a.txt\r\n\nb.bin  \nEOF\nignored\n"))
	require.Equal(t, []string{"a.txt", "b.bin", EOFToken, "ignored"}, drain(t, s))
	require.NoError(t, s.Close())
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\nEOF\n"), 0o600))
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.Equal(t, []string{"x", EOFToken}, drain(t, s))

	_, err = Open(filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLines(t *testing.T) {
	l := Lines{"a\n", "", "EOF"}
	require.Equal(t, []string{"a", EOFToken}, drain(t, &l))
}
