// Package app contains the Cobra command tree for climatiqq.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/climatiqq/climatiqq/internal/config"
	"github.com/climatiqq/climatiqq/internal/logging"
	"github.com/climatiqq/climatiqq/internal/output"
	"github.com/climatiqq/climatiqq/internal/recommend"
	"github.com/climatiqq/climatiqq/internal/store"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
	flagUser    string
)

var rootCmd = &cobra.Command{
	Use:   "climatiqq",
	Short: "Track your environmental impact and get suggestions to reduce it",
	Long: `climatiqq records carbon, water, energy and digital usage entries,
summarises them, and turns them into personalised sustainability
suggestions with a rule-based recommendation engine.

Entries can be logged from the CLI, posted to the HTTP API (serve), or
published over MQTT (ingest).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("climatiqq", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  log       Record an impact entry, or list and delete entries")
		fmt.Println("  stats     Show totals and recent activity per metric")
		fmt.Println("  suggest   Suggestions from your stored entries")
		fmt.Println("  predict   Suggestions for user-data JSON files")
		fmt.Println("  serve     Run the HTTP API")
		fmt.Println("  ingest    Store entries published over MQTT")
		fmt.Println("  mcp       Run an MCP stdio server")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/climatiqq/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "User whose entries are read and written (default: default_user from config)")
}

// appEnv bundles what a command needs once config is loaded.
type appEnv struct {
	cfg    *config.Config
	log    zerolog.Logger
	db     *store.DB
	engine *recommend.Engine
}

// loadEnv loads config, applies output preferences, builds the logger,
// and opens the store.
func loadEnv() (*appEnv, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor || !cfg.Output.Color || !stdoutIsTerminal() {
		output.SetNoColor(true)
	}

	level := cfg.Log.Level
	if flagVerbose {
		level = "debug"
	}
	log := logging.New(os.Stderr, level, cfg.Log.Pretty)

	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Debug().Str("driver", cfg.Database.Driver).Msg("database opened")

	return &appEnv{
		cfg:    cfg,
		log:    log,
		db:     db,
		engine: recommend.NewEngine(log),
	}, nil
}

// Close releases the store.
func (e *appEnv) Close() {
	if err := e.db.Close(); err != nil {
		e.log.Warn().Err(err).Msg("closing database")
	}
}

// user resolves --user against the configured default.
func (e *appEnv) user() string {
	if u := strings.TrimSpace(flagUser); u != "" {
		return u
	}
	return e.cfg.DefaultUser
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// writeJSON pretty-prints v to stdout.
func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
