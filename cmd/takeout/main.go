package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/johnwards/takeout/internal/config"
	"github.com/johnwards/takeout/internal/database"
	"github.com/johnwards/takeout/internal/seed"
	"github.com/johnwards/takeout/internal/store"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "takeout",
		Usage: "Load a personal video-platform export into a local SQLite store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				EnvVars: []string{"TAKEOUT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the SQLite database file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create or upgrade the database schema",
				Action: migrateCommand,
			},
			{
				Name:   "seed",
				Usage:  "Seed an export bundle into the database",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "bundle",
						Aliases:  []string{"b"},
						Usage:    "Path to the export bundle JSON file, or - for stdin",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "types",
						Usage: "Data types to seed (default: all)",
					},
					&cli.StringSliceFlag{
						Name:  "skip",
						Usage: "Data types to skip",
					},
					&cli.BoolFlag{
						Name:  "clear-playlists",
						Usage: "Delete every imported playlist before seeding",
					},
					&cli.BoolFlag{
						Name:  "incremental",
						Usage: "Upsert only, never clear playlists",
					},
					&cli.StringFlag{
						Name:  "user-id",
						Usage: "User that watch history is recorded for",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of source rows per transaction",
					},
				},
			},
			{
				Name:   "types",
				Usage:  "List seedable data types and their dependencies",
				Action: typesCommand,
			},
			{
				Name:   "stats",
				Usage:  "Show row counts of the store",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "user-id",
						Usage: "User whose watch history is counted",
					},
				},
			},
		},
	}
}

// loadConfig layers global flags over the environment and optional config
// file.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Load()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return config.Config{}, err
		}
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	return cfg, nil
}

func setupLogger(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	levelStr := strings.ToLower(cfg.LogLevel)

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// openStore opens the database and brings its schema up to date.
func openStore(ctx context.Context, path string) (*sql.DB, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

func migrateCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := openStore(c.Context, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	version, err := database.Version(c.Context, db)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.App.Writer, "schema version %d (%s)\n", version, cfg.DBPath)
	return nil
}

func seedCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("user-id") {
		cfg.UserID = c.String("user-id")
	}
	if c.IsSet("batch-size") {
		cfg.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("clear-playlists") {
		cfg.ClearPlaylists = c.Bool("clear-playlists")
	}

	bundle, err := loadBundle(c.String("bundle"), os.Stdin)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	svc, err := seed.NewService(db,
		seed.WithLogger(slog.Default()),
		seed.WithBatchSize(cfg.BatchSize),
		seed.WithProgressInterval(cfg.ProgressInterval),
		seed.WithUserID(cfg.UserID),
		seed.WithLikedPlaylist(cfg.LikedPlaylist),
		seed.WithClearExisting(cfg.ClearPlaylists),
	)
	if err != nil {
		return err
	}

	ro := seed.RunOptions{
		Types: c.StringSlice("types"),
		Skip:  c.StringSlice("skip"),
		Progress: func(dataType string) {
			slog.Debug("progress", "type", dataType)
		},
	}

	run := svc.Seed
	if c.Bool("incremental") {
		run = svc.SeedIncremental
	}
	results, err := run(ctx, bundle, ro)
	if len(results) > 0 {
		printSummary(c.App.Writer, results)
	}
	return err
}

// printSummary writes one line per data type that ran, then the total.
func printSummary(w io.Writer, results map[string]seed.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TYPE\tCREATED\tUPDATED\tFAILED\tSUCCESS\tSECONDS")
	line := func(name string, r seed.Result) {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f%%\t%.2f\n",
			name, r.Created, r.Updated, r.Failed, r.SuccessRate(), r.DurationSeconds())
	}
	for _, dt := range seed.DataTypes() {
		if r, ok := results[dt]; ok {
			line(dt, r)
		}
	}
	total := seed.Total(results, seed.DataTypes())
	line("total", total)
	_ = tw.Flush()

	for _, e := range total.Errors {
		_, _ = fmt.Fprintf(w, "  error: %s\n", e)
	}
}

func typesCommand(c *cli.Context) error {
	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	for _, s := range seed.Seeders() {
		deps := "-"
		if s.HasDependencies() {
			deps = strings.Join(s.Dependencies(), ", ")
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", s.DataType(), deps)
	}
	return tw.Flush()
}

func statsCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("user-id") {
		cfg.UserID = c.String("user-id")
	}

	db, err := openStore(c.Context, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	st := store.New(db)
	ctx := c.Context
	counts := []struct {
		name string
		fn   func(context.Context) (int, error)
	}{
		{"channels", st.Channels.Count},
		{"videos", st.Videos.Count},
		{"user_videos", func(ctx context.Context) (int, error) { return st.UserVideos.Count(ctx, cfg.UserID) }},
		{"imported playlists", st.Playlists.CountImported},
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	for _, row := range counts {
		n, err := row.fn(ctx)
		if err != nil {
			return fmt.Errorf("count %s: %w", row.name, err)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\n", row.name, n)
	}
	return tw.Flush()
}
