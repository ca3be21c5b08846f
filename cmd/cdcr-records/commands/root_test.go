package commands_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	app := newTestApp(t)
	app.SetArgs("version")
	require.NoError(t, app.Run(), "version should not return an error")
}

func TestVersionRejectsArguments(t *testing.T) {
	app := newTestApp(t)
	app.SetArgs("version", "extra")
	require.Error(t, app.Run(), "version should reject positional arguments")
	require.True(t, app.UsageError(), "an unexpected argument is a usage error")
}

func TestRootFlags(t *testing.T) {
	tests := map[string]struct {
		args []string

		wantVerbosity int
		wantJSONLogs  bool
		wantQuiet     bool
	}{
		"Defaults":            {},
		"Single verbose":      {args: []string{"-v"}, wantVerbosity: 1},
		"Double verbose":      {args: []string{"-vv"}, wantVerbosity: 2},
		"JSON logs":           {args: []string{"--json-logs"}, wantJSONLogs: true},
		"Quiet":               {args: []string{"-q"}, wantQuiet: true},
		"Combined root flags": {args: []string{"-vv", "--json-logs", "-q"}, wantVerbosity: 2, wantJSONLogs: true, wantQuiet: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			app := newTestApp(t)
			app.SetArgs(append([]string{"version"}, tc.args...)...)
			require.NoError(t, app.Run(), "command should not return an error")

			cfg := app.Config()
			require.Equal(t, tc.wantVerbosity, cfg.Verbosity, "unexpected verbosity")
			require.Equal(t, tc.wantJSONLogs, cfg.JSONLogs, "unexpected JSON logs setting")
			require.Equal(t, tc.wantQuiet, cfg.Quiet, "unexpected quiet setting")
		})
	}
}

func TestUnknownCommandErrors(t *testing.T) {
	app := newTestApp(t)
	app.SetArgs("does-not-exist")
	require.Error(t, app.Run(), "an unknown command should return an error")
}
