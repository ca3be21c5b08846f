package testutils

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// GetDirContents returns the contents of a directory as a map of relative
// file paths to file contents, with line endings normalized.
func GetDirContents(t *testing.T, dir string) (map[string]string, error) {
	t.Helper()

	files := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		// Normalize content between Windows and Linux
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		files[filepath.ToSlash(relPath)] = string(content)

		return nil
	})

	return files, err
}
