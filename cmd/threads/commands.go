package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/threads/internal"
	"github.com/starford/threads/internal/apperr"
	"github.com/starford/threads/internal/models"
	"github.com/starford/threads/internal/threadservice"
	"github.com/starford/threads/internal/timestamp"
)

// withBackend opens the threads file and index for a one-shot command.
func withBackend(cmd *cli.Command, fn func(*internal.Backend) error) error {
	s, err := load(cmd, true)
	if err != nil {
		return err
	}
	b, err := internal.OpenBackend(s.cfg, s.path, s.logger)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List open threads, numbered for use with done",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Include closed threads"},
			&cli.BoolFlag{Name: "closed", Usage: "Only closed threads"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			filter := threadservice.FilterOpen
			switch {
			case cmd.Bool("all"):
				filter = threadservice.FilterAll
			case cmd.Bool("closed"):
				filter = threadservice.FilterClosed
			}
			return withBackend(cmd, func(b *internal.Backend) error {
				items, err := b.Service.List(ctx, filter)
				if err != nil {
					return err
				}
				w := cmd.Root().Writer
				if len(items) == 0 {
					_, err := fmt.Fprintf(w, "No %s threads.\n", filter)
					return err
				}
				for _, t := range items {
					fmt.Fprintln(w, formatThread(t))
				}
				return nil
			})
		},
	}
}

// formatThread renders one list entry. Open threads carry their 1-based
// number; closed threads are marked with x.
func formatThread(t models.Thread) string {
	var b strings.Builder
	if t.Ordinal != nil {
		fmt.Fprintf(&b, "%3d. %s", *t.Ordinal+1, t.Body)
	} else {
		fmt.Fprintf(&b, "   x  %s", t.Body)
	}
	switch {
	case t.Cleared != nil:
		fmt.Fprintf(&b, "  (cleared %s)", timestamp.Format(*t.Cleared))
	case t.Created != nil:
		fmt.Fprintf(&b, "  (%s)", timestamp.Format(*t.Created))
	}
	return b.String()
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add an open thread",
		ArgsUsage: "<text...>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			body := strings.Join(cmd.Args().Slice(), " ")
			if strings.TrimSpace(body) == "" {
				return errors.New("add: thread text is required")
			}
			return withBackend(cmd, func(b *internal.Backend) error {
				t, err := b.Service.Add(ctx, body)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.Root().Writer, "Added: %s\n", t.Body)
				return err
			})
		},
	}
}

func doneCommand() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Close the Nth open thread as numbered by list",
		ArgsUsage: "<N>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			n, err := strconv.Atoi(cmd.Args().First())
			if err != nil {
				return fmt.Errorf("done: %q is not a thread number", cmd.Args().First())
			}
			return withBackend(cmd, func(b *internal.Backend) error {
				t, err := b.Service.Complete(ctx, n-1)
				if errors.Is(err, apperr.ErrOutOfRange) {
					return fmt.Errorf("done: no open thread #%d", n)
				}
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.Root().Writer, "Closed: %s\n", t.Body)
				return err
			})
		},
	}
}

func reorderCommand() *cli.Command {
	return &cli.Command{
		Name:  "reorder",
		Usage: "Rewrite the file into sorted Open and Closed sections",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withBackend(cmd, func(b *internal.Backend) error {
				res, err := b.Service.Reorder(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.Root().Writer, "Reordered: %d open, %d closed, %d dropped\n",
					res.Open, res.Closed, len(res.Dropped))
				return err
			})
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search thread text",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "Maximum results"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			q := strings.Join(cmd.Args().Slice(), " ")
			if q == "" {
				return errors.New("search: query is required")
			}
			return withBackend(cmd, func(b *internal.Backend) error {
				results, err := b.Service.Search(ctx, q, int(cmd.Int("limit")))
				if err != nil {
					return err
				}
				w := cmd.Root().Writer
				for _, r := range results {
					marker := " "
					if r.Status == "closed" {
						marker = "x"
					}
					fmt.Fprintf(w, "%4d [%s] %s\n", r.Line, marker, r.Body)
				}
				return nil
			})
		},
	}
}

func pathCommand() *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: "Print the resolved threads file path",
		Action: func(_ context.Context, cmd *cli.Command) error {
			s, err := load(cmd, true)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.Root().Writer, "%s\t(%s)\n", s.path, s.source)
			return err
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API with live change events",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := load(cmd, false)
			if err != nil {
				return err
			}
			if err := internal.Run(ctx,
				internal.WithConfig(s.cfg),
				internal.WithThreadsFile(s.path),
				internal.WithLogger(s.logger),
			); err != nil {
				return fmt.Errorf("app run error: %w", err)
			}
			return nil
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve thread tools over MCP on stdin/stdout",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := load(cmd, false)
			if err != nil {
				return err
			}
			return internal.ServeMCP(ctx,
				internal.WithConfig(s.cfg),
				internal.WithThreadsFile(s.path),
				internal.WithLogger(s.logger),
				internal.WithVersion(version),
			)
		},
	}
}
