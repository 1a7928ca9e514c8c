package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashString(t *testing.T) {
	require.Equal(t, HashString("some text"), HashString("some text"))
	require.Equal(t, HashString("ab"), HashBytes([]byte("a"), []byte("b")))
	require.NotEqual(t, HashString("some text"), HashString("some other text"))
}

func TestReadMap(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "map.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("runs|NN VB\n\nbar|a|b\n"), 0o644))

	m, err := ReadMap(filePath)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"runs": "NN VB", "bar": "a|b"}, m)

	badPath := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(badPath, []byte("runs\n"), 0o644))
	_, err = ReadMap(badPath)
	require.Error(t, err)

	_, err = ReadMap(filepath.Join(dir, "missing.txt"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRecoverWithError(t *testing.T) {
	run := func() (err error) {
		defer RecoverWithError(&err)
		panic("boom")
	}
	err := run()
	require.EqualError(t, err, "got panic: boom")
}
