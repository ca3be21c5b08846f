package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/justiceline/cdcr-records/internal/batch"
	"github.com/justiceline/cdcr-records/internal/collector"
	"github.com/justiceline/cdcr-records/internal/constants"
	"github.com/justiceline/cdcr-records/internal/exporter"
	"github.com/spf13/cobra"
)

func installQueryCmd(app *App) {
	queryCmd := &cobra.Command{
		Use:   "query [CDCR-NUMBER ...]",
		Short: "Look up CDCR numbers and export the records",
		Long: `Look up one inmate record per CDCR number and export the collected records.

CDCR numbers are taken from the arguments, from the batch file, or from both,
in that order. Every run writes three files sharing one run timestamp: a flat
CSV with one row per record, a JSON document with the full records including
their parole hearings, and a CSV with one row per parole hearing.

A lookup that produces no data does not abort the run: the record is exported
with only its CDCR number set.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.config.Query.CDCRNumbers = args

			slog.Debug("Running query command")
			return app.queryRun()
		},
	}

	queryCmd.Flags().StringVarP(&app.config.Query.Batch, "batch", "b", "", "path to a TOML batch file listing cdcr_numbers to look up")
	queryCmd.Flags().StringVarP(&app.config.Query.Replay, "replay", "r", "", "path to a JSON replay fixture used as the page driver")
	queryCmd.Flags().StringVarP(&app.config.Query.OutputDir, "output-dir", "o", "", "directory the export files are written to (default current directory)")
	queryCmd.Flags().DurationVar(&app.config.Query.Delay, "delay", constants.DefaultDelay, "pause between two consecutive lookups")
	queryCmd.Flags().StringVar(&app.config.Query.CSVFile, "csv", "", "file name of the flat CSV export (default derived from the run timestamp)")
	queryCmd.Flags().StringVar(&app.config.Query.JSONFile, "json", "", "file name of the JSON export (default derived from the run timestamp)")
	queryCmd.Flags().StringVar(&app.config.Query.HearingsFile, "hearings-csv", "", "file name of the parole hearings CSV export (default derived from the run timestamp)")

	app.cmd.AddCommand(queryCmd)
}

// queryRun runs the query command.
func (a *App) queryRun() error {
	l := slog.Default()
	qc := a.config.Query

	numbers := qc.CDCRNumbers
	cConfig := collector.Config{Delay: qc.Delay}
	eConfig := exporter.Config{Dir: qc.OutputDir}

	if qc.Batch != "" {
		b, err := batch.Load(l, qc.Batch)
		if err != nil {
			return err
		}
		numbers = append(numbers, b.CDCRNumbers...)
		if b.DelaySet {
			cConfig.Delay = b.Delay
		}
		if b.OutputDir != "" && eConfig.Dir == "" {
			eConfig.Dir = b.OutputDir
		}
	}

	if len(numbers) == 0 {
		a.cmd.SilenceUsage = false
		return errors.New("no CDCR numbers provided, pass them as arguments or through a batch file")
	}
	if qc.Replay == "" {
		a.cmd.SilenceUsage = false
		return errors.New("a page driver is required, point --replay at a replay fixture")
	}

	d, err := a.newDriver(l, qc.Replay)
	if err != nil {
		return err
	}
	c, err := a.newCollector(l, d, cConfig)
	if err != nil {
		return fmt.Errorf("failed to create collector: %v", err)
	}

	records, err := c.Collect(context.Background(), numbers)
	if err != nil {
		return err
	}

	e, err := a.newExporter(l, eConfig)
	if err != nil {
		return fmt.Errorf("failed to create exporter: %v", err)
	}

	// Each export writes independently: one failing does not stop the others.
	var exportErrs error
	for _, export := range []func() (string, error){
		func() (string, error) { return e.ExportInmatesCSV(records, qc.CSVFile) },
		func() (string, error) { return e.ExportJSON(records, qc.JSONFile) },
		func() (string, error) { return e.ExportHearingsCSV(records, qc.HearingsFile) },
	} {
		path, err := export()
		if err != nil {
			exportErrs = errors.Join(exportErrs, err)
			continue
		}
		if !a.config.Quiet {
			fmt.Printf("Exported: %s\n", path)
		}
	}
	if exportErrs != nil {
		return exportErrs
	}

	if !a.config.Quiet {
		if err := e.Summary(os.Stdout, records); err != nil {
			return err
		}
	}
	return nil
}
