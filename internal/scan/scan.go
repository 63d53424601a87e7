// Package scan enumerates the regular files under a directory root for the
// archive engine's compression pipeline.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// Walk recursively enumerates regular files below root and returns their
// paths relative to root, using forward-slash separation regardless of
// host convention. Directories, symlinks, sockets, and other non-regular
// entries are silently ignored. When skipEmpty is true (the default
// callers should pass), zero-length files are dropped from the result.
func Walk(root string, skipEmpty bool) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scan: walk %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("scan: stat %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if skipEmpty && info.Size() == 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("scan: relativize %s: %w", path, err)
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
