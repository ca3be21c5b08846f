// Package testutils provides helpers for the tests of this repository.
package testutils

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var update bool

func init() {
	flag.BoolVar(&update, "update", false, "update golden files")
}

// GoldenPath returns the path of the golden file for the current test.
func GoldenPath(t *testing.T) string {
	t.Helper()

	path := filepath.Join("testdata", "golden")
	name := strings.ReplaceAll(t.Name(), "/", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return filepath.Join(path, name)
}

// LoadWithUpdateFromGolden loads the element from a plaintext golden file.
// It will update the file if the update flag is used prior to loading it.
func LoadWithUpdateFromGolden(t *testing.T, data string) string {
	t.Helper()

	goldenPath := GoldenPath(t)

	if update {
		t.Logf("updating golden file %s", goldenPath)
		require.NoError(t, os.MkdirAll(filepath.Dir(goldenPath), 0750), "Cannot create directory for updating golden files")
		require.NoError(t, os.WriteFile(goldenPath, []byte(data), 0600), "Cannot write golden file")
	}

	want, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "Cannot load golden file")

	return string(want)
}

// LoadWithUpdateFromGoldenYAML loads the element from a YAML serialized golden
// file. It will update the file if the update flag is used prior to loading it.
func LoadWithUpdateFromGoldenYAML[E any](t *testing.T, ref E) E {
	t.Helper()

	t.Logf("Loading golden file in yaml format")

	if update {
		data, err := yaml.Marshal(ref)
		require.NoError(t, err, "Cannot serialize to YAML for golden file")
		LoadWithUpdateFromGolden(t, string(data))
	}

	var want E
	data, err := os.ReadFile(GoldenPath(t))
	require.NoError(t, err, "Cannot load golden file")
	require.NoError(t, yaml.Unmarshal(data, &want), "Cannot create expected structure from golden file")

	return want
}
