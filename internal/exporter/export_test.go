package exporter

// WithTimeProvider overrides the time source used to take the run timestamp.
func WithTimeProvider(tp timeProvider) Options {
	return func(o *options) {
		o.timeProvider = tp
	}
}
