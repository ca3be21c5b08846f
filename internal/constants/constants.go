// Package constants is responsible for defining the constants used in the application.
package constants

import (
	"log/slog"
	"time"
)

// Version is the version of the application.
var Version = "Dev"

const (
	// CmdName is the name of the command line tool.
	CmdName = "cdcr-records"

	// DefaultLogLevel is the default log level selected without any verbosity flags.
	DefaultLogLevel = slog.LevelWarn

	// TimestampFormat is the layout of the run timestamp embedded in derived export file names.
	TimestampFormat = "20060102_150405"

	// InmatesExportPrefix is the base name prefix of the flat inmates CSV and the full JSON exports.
	InmatesExportPrefix = "cdcr_inmates"

	// HearingsExportPrefix is the base name prefix of the exploded parole hearings CSV export.
	HearingsExportPrefix = "cdcr_parole_hearings"

	// DefaultDelay is the default pause between two consecutive record lookups.
	DefaultDelay = time.Second
)
