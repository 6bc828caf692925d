package config

type LogConfig struct {
	// LogLevel is one of debug, info, warn or error
	LogLevel string `env:"LOG_LEVEL" envDefault:"debug"`

	// LogHandler selects the slog handler, "json" for machine readable
	// output, anything else for the colourised text handler
	LogHandler string `env:"LOG_HANDLER" envDefault:"default"`

	// TraceVerbose keeps span attributes longer than 256 characters in the
	// span log
	TraceVerbose bool `env:"TRACE_VERBOSE" envDefault:"false"`
}
