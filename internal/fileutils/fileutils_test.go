package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/justiceline/cdcr-records/internal/fileutils"
	"github.com/stretchr/testify/require"
)

func TestAtomicWrite(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		data       string
		existing   string
		missingDir bool

		wantErr bool
	}{
		"New file":       {data: "cdcr_number,name\n"},
		"New empty file": {},

		"Overwrite existing file":            {data: "new", existing: "old"},
		"Overwrite existing file with empty": {existing: "old"},

		// Error cases
		"Missing parent directory errors": {data: "data", missingDir: true, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "export.csv")
			if tc.missingDir {
				path = filepath.Join(dir, "missing", "export.csv")
			}

			if tc.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tc.existing), 0600), "Setup: failed to write existing file")
			}

			err := fileutils.AtomicWrite(path, []byte(tc.data))
			if tc.wantErr {
				require.Error(t, err, "AtomicWrite should return an error")
				return
			}
			require.NoError(t, err, "AtomicWrite should not return an error")

			got, err := os.ReadFile(path)
			require.NoError(t, err, "Could not read back written file")
			require.Equal(t, tc.data, string(got), "AtomicWrite should have written the data whole")

			entries, err := os.ReadDir(dir)
			require.NoError(t, err, "Could not list directory")
			require.Len(t, entries, 1, "AtomicWrite should not leave temporary files behind")
		})
	}
}
