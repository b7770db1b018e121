package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mcoot/tourney/internal/config"
	"github.com/mcoot/tourney/internal/dependencies/clock"
	"github.com/mcoot/tourney/internal/factory"
	"github.com/mcoot/tourney/internal/logger"
	"github.com/mcoot/tourney/internal/middleware"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	Storage     string
	DBPath      string
	DatabaseURL string
	RedisURL    string
	LogLevel    string
}

// AppFactory builds the application for one invocation
type AppFactory func(ctx context.Context, opts *RootOptions, logger zerolog.Logger) (*factory.App, error)

// Options customize the CLI's surroundings. Zero fields fall back to the
// process's stdio, the real clock and a factory-built app.
type Options struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	NewApp AppFactory
	Clock  clock.Clock
}

// runtime is the per-invocation state commands share. It is filled in by the
// root command's PersistentPreRunE.
type runtime struct {
	opts   *RootOptions
	app    *factory.App
	out    *OutputFormatter
	logger zerolog.Logger
	clock  clock.Clock
	in     *bufio.Reader
	runID  string
}

// newRootCommand creates the root command for the tourney CLI
func newRootCommand(o Options) (*cobra.Command, *runtime) {
	o = withDefaults(o)
	opts := defaultRootOptions()
	rt := &runtime{
		opts:  opts,
		clock: o.Clock,
		in:    bufio.NewReader(o.In),
		out:   &OutputFormatter{Format: FormatText, Writer: o.Out, ErrWriter: o.Err},
	}

	cmd := &cobra.Command{
		Use:   "tourney",
		Short: "Run a swiss-style tournament from the command line",
		Long: `tourney keeps the state of a small tournament: registered players,
match results with a randomly chosen winner, swiss pairings, a win ranking
and an audit trail of every change.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			rt.out.Format = opts.Format

			level := logger.ParseLevel(opts.LogLevel, zerolog.WarnLevel)
			if opts.Verbose {
				level = zerolog.DebugLevel
			}
			rt.runID = uuid.NewString()
			rt.logger = logger.New(level, o.Err).With().Str("run_id", rt.runID).Logger()

			app, err := o.NewApp(cmd.Context(), opts, rt.logger)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open storage", err)
			}
			rt.app = app

			rt.logger.Debug().
				Str("command", cmd.CommandPath()).
				Str("storage", opts.Storage).
				Msg("command started")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose logging to stderr")
	flags.StringVar(&opts.Format, "format", FormatText, "Output format: text, json")
	flags.StringVar(&opts.Storage, "storage", opts.Storage, "Storage backend: memory, redis, sqlite, postgres (env: TOURNEY_STORAGE)")
	flags.StringVar(&opts.DBPath, "db", opts.DBPath, "SQLite database file (env: TOURNEY_DB_PATH)")
	flags.StringVar(&opts.DatabaseURL, "database-url", opts.DatabaseURL, "PostgreSQL connection URL (env: TOURNEY_DATABASE_URL)")
	flags.StringVar(&opts.RedisURL, "redis-url", opts.RedisURL, "Redis connection URL (env: TOURNEY_REDIS_URL)")

	// Add subcommands
	cmd.AddCommand(newPlayerCmd(rt))
	cmd.AddCommand(newMatchCmd(rt))
	cmd.AddCommand(newSwissCmd(rt))
	cmd.AddCommand(newRankCmd(rt))
	cmd.AddCommand(newAuditCmd(rt))

	middleware.Apply(cmd,
		middleware.Recovery(rt.log, panicError),
		middleware.Logging(rt.log, o.Clock),
	)

	cmd.SetIn(o.In)
	cmd.SetOut(o.Out)
	cmd.SetErr(o.Err)

	return cmd, rt
}

func (rt *runtime) log() zerolog.Logger {
	return rt.logger
}

func panicError(cmd *cobra.Command, recovered any) error {
	return NewExitError(ExitCommandError, fmt.Sprintf("internal error in %s: %v", cmd.CommandPath(), recovered))
}

// Run executes the CLI with args and returns the process exit code
func Run(ctx context.Context, args []string, o Options) int {
	cmd, rt := newRootCommand(o)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)

	if rt.app != nil {
		if cerr := rt.app.Close(); cerr != nil {
			rt.logger.Warn().Err(cerr).Msg("failed to close storage")
		}
	}

	if err == nil {
		return ExitSuccess
	}
	rt.logger.Debug().Err(err).Msg("command failed")
	_ = rt.out.Error(err)
	return GetExitCode(err)
}

func withDefaults(o Options) Options {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.NewApp == nil {
		o.NewApp = newApp
	}
	return o
}

// defaultRootOptions seeds flag defaults from the environment. The merged
// settings are validated when the app is built.
func defaultRootOptions() *RootOptions {
	cfg := config.FromEnvironment(zerolog.Nop())
	return &RootOptions{
		Format:      FormatText,
		Storage:     cfg.Storage,
		DBPath:      cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
		LogLevel:    cfg.LogLevel,
	}
}
