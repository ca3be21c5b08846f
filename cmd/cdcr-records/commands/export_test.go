package commands

type (
	NewDriver    = newDriver
	NewCollector = newCollector
	NewExporter  = newExporter
)

// SetArgs sets the arguments for the command.
func (a *App) SetArgs(args ...string) {
	a.cmd.SetArgs(args)
}

// Config returns the configuration of the app.
func (a *App) Config() appConfig {
	return a.config
}

// WithNewDriver sets the page driver constructor for the app.
func WithNewDriver(nd NewDriver) Options {
	return func(o *options) {
		o.newDriver = nd
	}
}

// WithNewCollector sets the collector constructor for the app.
func WithNewCollector(nc NewCollector) Options {
	return func(o *options) {
		o.newCollector = nc
	}
}

// WithNewExporter sets the exporter constructor for the app.
func WithNewExporter(ne NewExporter) Options {
	return func(o *options) {
		o.newExporter = ne
	}
}
