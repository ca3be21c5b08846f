// Package exporter serializes collected records to the export files of a run.
//
// A run produces up to three files from the same record list: a flat CSV with
// one row per record, a full JSON document preserving the nested hearings, and
// an exploded CSV with one row per hearing. All derived file names of one run
// share a single timestamp taken when the exporter is created, so the files of
// one invocation are correlatable by name.
package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/justiceline/cdcr-records/internal/constants"
	"github.com/justiceline/cdcr-records/internal/fileutils"
	"github.com/justiceline/cdcr-records/internal/record"
	"github.com/ubuntu/decorate"
)

// inmatesHeader is the fixed column set of the flat CSV export. Order must
// not change: downstream consumers match columns by position.
var inmatesHeader = []string{
	"cdcr_number", "name", "age", "admission_date",
	"current_location", "commitment_county", "parole_eligible_date",
	"num_parole_hearings",
}

// hearingsHeader is the fixed column set of the exploded hearings CSV export.
var hearingsHeader = []string{
	"cdcr_number", "inmate_name", "date", "action", "status", "outcome",
}

type timeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}

// Exporter writes the export files of one run.
type Exporter struct {
	dir   string
	stamp string

	log *slog.Logger
}

type options struct {
	// Private member exported for tests.
	timeProvider timeProvider
}

var defaultOptions = options{
	timeProvider: realTimeProvider{},
}

// Options represents an optional function to override Exporter default values.
type Options func(*options)

// Config represents the exporter specific data needed to export.
type Config struct {
	// Dir is the directory derived file names are placed in, and the base
	// for relative explicit file names.
	Dir string
}

// Sanitize sets defaults and checks that the Config is properly configured.
func (c *Config) Sanitize(l *slog.Logger) error {
	if c.Dir == "" {
		c.Dir = "."
		l.Info("No output directory provided, defaulting to the current directory")
	}
	return nil
}

// New returns a new Exporter.
//
// The run timestamp embedded in derived file names is the current time at the
// moment of creation, shared by every export of this run.
func New(l *slog.Logger, c Config, args ...Options) (Exporter, error) {
	if err := c.Sanitize(l); err != nil {
		return Exporter{}, err
	}

	opts := defaultOptions
	for _, opt := range args {
		opt(&opts)
	}

	if err := os.MkdirAll(c.Dir, 0750); err != nil {
		return Exporter{}, fmt.Errorf("failed to create output directory: %v", err)
	}

	stamp := opts.timeProvider.Now().Format(constants.TimestampFormat)
	l.Debug("Creating new exporter", "dir", c.Dir, "timestamp", stamp)

	return Exporter{
		dir:   c.Dir,
		stamp: stamp,
		log:   l,
	}, nil
}

// ExportInmatesCSV writes the flat CSV export: one row per record, with the
// hearing count derived, not the hearings themselves. Absent fields render as
// empty strings. It returns the path of the written file.
//
// If filename is empty, it is derived from the run timestamp.
func (e Exporter) ExportInmatesCSV(records []record.Record, filename string) (path string, err error) {
	defer decorate.OnError(&err, "inmates CSV export failed")

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, inmatesHeader)
	for _, r := range records {
		rows = append(rows, []string{
			r.CDCRNumber,
			record.StringOrEmpty(r.Name),
			record.StringOrEmpty(r.Age),
			record.StringOrEmpty(r.AdmissionDate),
			record.StringOrEmpty(r.CurrentLocation),
			record.StringOrEmpty(r.CommitmentCounty),
			record.StringOrEmpty(r.ParoleEligibleDate),
			strconv.Itoa(len(r.Hearings)),
		})
	}

	path = e.resolve(filename, constants.InmatesExportPrefix, ".csv")
	if err := e.writeCSV(path, rows); err != nil {
		return "", err
	}

	e.log.Info("Inmates CSV exported", "file", path, "records", len(records))
	return path, nil
}

// ExportJSON writes the full JSON export: an indented array of record
// objects with hearings nested, losslessly round-trippable to the in-memory
// record list. Absent fields render as null. It returns the path of the
// written file.
//
// If filename is empty, it is derived from the run timestamp.
func (e Exporter) ExportJSON(records []record.Record, filename string) (path string, err error) {
	defer decorate.OnError(&err, "JSON export failed")

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal records: %v", err)
	}
	data = append(data, '\n')

	path = e.resolve(filename, constants.InmatesExportPrefix, ".json")
	if err := fileutils.AtomicWrite(path, data); err != nil {
		return "", err
	}

	e.log.Info("JSON exported", "file", path, "records", len(records))
	return path, nil
}

// ExportHearingsCSV writes the exploded hearings export: one row per
// (record, hearing) pair, carrying the CDCR number and inmate name alongside
// the hearing fields. Records without hearings contribute no rows. It returns
// the path of the written file.
//
// If filename is empty, it is derived from the run timestamp.
func (e Exporter) ExportHearingsCSV(records []record.Record, filename string) (path string, err error) {
	defer decorate.OnError(&err, "parole hearings CSV export failed")

	rows := [][]string{hearingsHeader}
	for _, r := range records {
		for _, h := range r.Hearings {
			rows = append(rows, []string{
				r.CDCRNumber,
				record.StringOrEmpty(r.Name),
				record.StringOrEmpty(h.Date),
				record.StringOrEmpty(h.Action),
				record.StringOrEmpty(h.Status),
				record.StringOrEmpty(h.Outcome),
			})
		}
	}

	path = e.resolve(filename, constants.HearingsExportPrefix, ".csv")
	if err := e.writeCSV(path, rows); err != nil {
		return "", err
	}

	e.log.Info("Parole hearings CSV exported", "file", path, "rows", len(rows)-1)
	return path, nil
}

// Summary writes a human readable digest of the record list to w.
func (e Exporter) Summary(w io.Writer, records []record.Record) (err error) {
	defer decorate.OnError(&err, "failed to write summary")

	line := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format+"\n", args...)
	}

	rule := "================================================================================"
	line(rule)
	line("CDCR INMATE SEARCH RESULTS SUMMARY")
	line(rule)
	for i, r := range records {
		line("")
		line("[%d] CDCR Number: %s", i+1, r.CDCRNumber)
		line("    Name: %s", record.StringOrEmpty(r.Name))
		line("    Age: %s", record.StringOrEmpty(r.Age))
		line("    Admission Date: %s", record.StringOrEmpty(r.AdmissionDate))
		line("    Current Location: %s", record.StringOrEmpty(r.CurrentLocation))
		line("    Commitment County: %s", record.StringOrEmpty(r.CommitmentCounty))
		line("    Parole Eligible Date: %s", record.StringOrEmpty(r.ParoleEligibleDate))
		line("    Board of Parole Hearings: %d records", len(r.Hearings))
	}
	line("")
	line(rule)

	return err
}

// resolve turns an optional explicit filename into the path to write to.
// Empty filenames derive `<prefix>_<run timestamp><ext>` in the output
// directory; relative explicit filenames are placed in the output directory;
// absolute ones are used as given.
func (e Exporter) resolve(filename, prefix, ext string) string {
	if filename == "" {
		filename = fmt.Sprintf("%s_%s%s", prefix, e.stamp, ext)
	}
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(e.dir, filename)
}

// writeCSV renders rows and writes them to path in a single atomic write, so
// a failed export never leaves a partial file behind.
func (e Exporter) writeCSV(path string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to render CSV rows: %v", err)
	}

	return fileutils.AtomicWrite(path, buf.Bytes())
}
