package scan

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalkNestedDirectoriesSkipsEmpty(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "data")
	writeFile(t, filepath.Join(root, "d1", "b.txt"), "data")
	writeFile(t, filepath.Join(root, "d1", "d2", "c.txt"), "data")
	writeFile(t, filepath.Join(root, "empty.txt"), "")

	got, err := Walk(root, true)
	require.NoError(t, err)
	slices.Sort(got)
	require.Equal(t, []string{"a.txt", "d1/b.txt", "d1/d2/c.txt"}, got)
}

func TestWalkKeepsEmptyWhenNotSkipping(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "empty.txt"), "")

	got, err := Walk(root, false)
	require.NoError(t, err)
	require.Equal(t, []string{"empty.txt"}, got)
}

func TestWalkStableAcrossRepeatedCalls(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "1")
	writeFile(t, filepath.Join(root, "b.txt"), "2")

	first, err := Walk(root, true)
	require.NoError(t, err)
	second, err := Walk(root, true)
	require.NoError(t, err)

	slices.Sort(first)
	slices.Sort(second)
	require.Equal(t, first, second)
}
