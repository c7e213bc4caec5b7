package internal

import "log/slog"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config      *Config
	threadsFile string
	logger      *slog.Logger
	version     string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithThreadsFile sets the resolved threads file path.
func WithThreadsFile(path string) Option {
	return func(a *application) {
		a.threadsFile = path
	}
}

// WithLogger overrides the logger built from the configuration.
func WithLogger(l *slog.Logger) Option {
	return func(a *application) {
		a.logger = l
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, errConfigRequired
	}
	if app.threadsFile == "" {
		return nil, errThreadsFileRequired
	}
	if app.logger == nil {
		app.logger = NewLogger(&app.config.App, nil)
	}
	return app, nil
}
