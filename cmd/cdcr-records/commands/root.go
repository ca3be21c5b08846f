// Package commands contains the commands of the cdcr-records command line tool.
package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/justiceline/cdcr-records/internal/cli"
	"github.com/justiceline/cdcr-records/internal/collector"
	"github.com/justiceline/cdcr-records/internal/constants"
	"github.com/justiceline/cdcr-records/internal/driver/replay"
	"github.com/justiceline/cdcr-records/internal/exporter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	cmd    *cobra.Command
	viper  *viper.Viper
	config appConfig

	newDriver    newDriver
	newCollector newCollector
	newExporter  newExporter
}

// appConfig holds the configuration for the application.
type appConfig struct {
	Verbosity int
	JSONLogs  bool
	Quiet     bool

	Query queryConfig
}

// queryConfig holds the configuration for the query command.
type queryConfig struct {
	CDCRNumbers []string

	Batch     string
	Replay    string
	OutputDir string
	Delay     time.Duration

	CSVFile      string
	JSONFile     string
	HearingsFile string
}

type newDriver func(l *slog.Logger, path string) (collector.Driver, error)
type newCollector func(l *slog.Logger, d collector.Driver, c collector.Config) (collector.Collector, error)
type newExporter func(l *slog.Logger, c exporter.Config, args ...exporter.Options) (exporter.Exporter, error)

type options struct {
	// Private members exported for tests.
	newDriver    newDriver
	newCollector newCollector
	newExporter  newExporter
}

// Options represents an optional function to override App default values.
type Options func(*options)

// New creates a new App instance with default values.
func New(args ...Options) (*App, error) {
	opts := options{
		newDriver: func(l *slog.Logger, path string) (collector.Driver, error) {
			return replay.New(l, path)
		},
		newCollector: collector.New,
		newExporter:  exporter.New,
	}
	for _, opt := range args {
		opt(&opts)
	}

	a := App{
		newDriver:    opts.newDriver,
		newCollector: opts.newCollector,
		newExporter:  opts.newExporter,
	}

	a.cmd = &cobra.Command{
		Use:   constants.CmdName + " [COMMAND]",
		Short: "CDCR inmate records lookup and export tool",
		Long: `Look up inmate records by CDCR number through a page driver and export
the results as CSV and JSON files.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true

			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs) // Set verbosity before loading config
			if err := cli.InitViperConfig(constants.CmdName, a.cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config); err != nil {
				return fmt.Errorf("unable to decode configuration into struct: %w", err)
			}
			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs) // Update logging after loading config if necessary

			return nil
		},
	}
	a.viper = viper.New()
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootCmd(&a)
	installQueryCmd(&a)
	a.installVersion()
	cli.InstallConfigFlag(a.cmd)

	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}

	return &a, nil
}

func installRootCmd(app *App) {
	cmd := app.cmd

	cmd.PersistentFlags().CountVarP(&app.config.Verbosity, "verbose", "v", "issue INFO (-v), DEBUG (-vv)")
	cmd.PersistentFlags().BoolVar(&app.config.JSONLogs, "json-logs", false, "enable JSON formatted logs")
	cmd.PersistentFlags().BoolVarP(&app.config.Quiet, "quiet", "q", false, "suppress the run summary and exported file paths")
}

// Run executes the command and associated process, returning an error if any.
func (a *App) Run() error {
	return a.cmd.Execute()
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// RootCmd returns the root command.
func (a App) RootCmd() cobra.Command {
	return *a.cmd
}
