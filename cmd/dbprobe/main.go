// @title			dbprobe API
// @version		1.0
// @description	Liveness probe and database listing diagnostics.
// @BasePath		/

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mtlprog/dbprobe/internal/config"
	"github.com/mtlprog/dbprobe/internal/database"
	"github.com/mtlprog/dbprobe/internal/handler"
	"github.com/mtlprog/dbprobe/internal/logger"
	"github.com/mtlprog/dbprobe/internal/metrics"
	"github.com/urfave/cli/v2"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "dbprobe",
		Usage: "Health and database listing diagnostics service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "json",
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "env-file",
				Value:   ".env",
				Usage:   "Optional dotenv file loaded before configuration is read",
				EnvVars: []string{"ENV_FILE"},
			},
			skipDatabaseFlag(),
		},
		Before: before,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Flags:  []cli.Flag{skipDatabaseFlag()},
				Action: runServe,
			},
			{
				Name:   "databases",
				Usage:  "Print the databases visible to the configured credential",
				Action: runDatabases,
			},
		},
		Action: runServe,
	}
}

// skipDatabaseFlag is defined on both the root app and serve, since the root
// action also serves.
func skipDatabaseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "skip-database",
		Usage:   "Start without a database connection; /dbtest reports no databases",
		EnvVars: []string{"SKIP_DATABASE"},
	}
}

// before loads the dotenv file and configures logging. Variables already
// present in the environment win over the file. A missing file is only an
// error when its path was given explicitly.
func before(c *cli.Context) error {
	path := c.String("env-file")
	envErr := godotenv.Load(path)

	level := setting(c, "log-level", "LOG_LEVEL")
	format := setting(c, "log-format", "LOG_FORMAT")
	logger.Setup(logger.ParseLevel(level), logger.ParseFormat(format))

	switch {
	case envErr == nil:
		slog.Debug("env file loaded", "path", path)
	case errors.Is(envErr, fs.ErrNotExist) && !c.IsSet("env-file"):
		slog.Debug("no env file found, using environment variables", "path", path)
	default:
		return fmt.Errorf("failed to load env file: %w", envErr)
	}

	return nil
}

// setting returns the flag value, or the environment value when the flag was
// not set at parse time. Flags bind their env vars before the dotenv file is
// loaded, so values coming from the file are only visible here.
func setting(c *cli.Context, flag, env string) string {
	if !c.IsSet(flag) {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return c.String(flag)
}

// skipDatabase honours the flag on serve or on the root app, then SKIP_DATABASE.
func skipDatabase(c *cli.Context) (bool, error) {
	for _, lc := range c.Lineage() {
		if lc.IsSet("skip-database") {
			return lc.Bool("skip-database"), nil
		}
	}
	v := os.Getenv("SKIP_DATABASE")
	if v == "" {
		return false, nil
	}
	skip, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid SKIP_DATABASE %q: %w", v, err)
	}
	return skip, nil
}

func connect(ctx context.Context, cfg *config.Config) (database.Handle, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := database.Open(ctx, cfg.MongoURL, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func closeDatabase(db database.Handle) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := db.Close(ctx); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	cfg, err := config.Load(os.LookupEnv)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	skip, err := skipDatabase(c)
	if err != nil {
		return err
	}

	var db database.Lister
	if skip {
		slog.Warn("starting without database connection")
	} else {
		handle, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDatabase(handle)
		db = handle
	}

	h := handler.New(db, metrics.New())

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Routes(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)

	go func() {
		slog.Info("starting server", "server_addr", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runDatabases(c *cli.Context) error {
	ctx := c.Context

	cfg, err := config.Load(os.LookupEnv)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	names, err := db.ListDatabaseNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list databases: %w", err)
	}

	for _, name := range names {
		fmt.Fprintln(c.App.Writer, name)
	}

	return nil
}
