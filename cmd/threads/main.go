package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/threads/internal"
	"github.com/starford/threads/internal/location"
	pkgconfig "github.com/starford/threads/pkg/config"
)

var version = "dev"

// session is what every command needs after global flags are applied.
type session struct {
	cfg    *internal.Config
	path   string
	source location.Source
	logger *slog.Logger
}

// load reads the config, resolves the threads file and builds the logger.
// One-shot commands log at WARN or above so stderr only carries problems.
func load(cmd *cli.Command, oneShot bool) (*session, error) {
	configPath, err := location.Expand(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	path, source, err := internal.ResolveThreadsFile(cfg, cmd.String("file"))
	if err != nil {
		return nil, err
	}

	app := cfg.App
	if oneShot && app.LogLevel < slog.LevelWarn {
		app.LogLevel = slog.LevelWarn
	}
	return &session{
		cfg:    cfg,
		path:   path,
		source: source,
		logger: internal.NewLogger(&app, cmd.Root().ErrWriter),
	}, nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "threads",
		Usage:   "Track open threads as checklist lines in a Markdown file",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "~/.config/threads/config.yaml",
				Value:       "~/.config/threads/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Threads file (overrides config, $THREADS_FILE and ~/.threadstrc)",
			},
		},
		Commands: []*cli.Command{
			listCommand(),
			addCommand(),
			doneCommand(),
			reorderCommand(),
			searchCommand(),
			pathCommand(),
			serveCommand(),
			mcpCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
