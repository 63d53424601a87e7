package digest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashBytesKnownVectors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"hello world", "Hello, World!", "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f"},
		{"empty", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := HashBytes([]byte(tc.in))
			require.Len(t, got, 64)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestHashFileAgreesWithHashBytes(t *testing.T) {
	t.Parallel()

	data := []byte("the quick brown fox jumps over the lazy dog")
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	fromFile, err := HashFile(path)
	require.NoError(t, err)
	require.Equal(t, HashBytes(data), fromFile)
}

func TestHashFileMissing(t *testing.T) {
	t.Parallel()

	_, err := HashFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
