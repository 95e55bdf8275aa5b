package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/999aryaDharma/HackStack/internal/config"
	"github.com/999aryaDharma/HackStack/internal/store"
)

var (
	cfg    *config.Config
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

var rootCmd = &cobra.Command{
	Use:   "hackstack",
	Short: "Swipe-to-learn programming flashcards",
	Long:  "HackStack: terminal flashcards for programmers. Flip a card, swipe right if you knew it, left if you did not.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger = newLogger(os.Stderr, verbose)
		slog.SetDefault(logger)

		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}
		configFile, _ := cmd.Flags().GetString("config")
		c, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides HACKSTACK_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./hackstack.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	addPlayFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the db_path setting, then HACKSTACK_DB env var, then the default
// XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore resolves the database path and opens it.
func openStore(cmd *cobra.Command) (*store.Store, string, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, "", fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("open store: %w", err)
	}
	return st, dbPath, nil
}

// sessionLogger sends logs to a file beside the database so they do not
// tear the full-screen UI.
func sessionLogger(dbPath string, verbose bool) (*slog.Logger, func(), error) {
	p := filepath.Join(filepath.Dir(dbPath), "hackstack.log")
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l := newLogger(f, verbose)
	if !verbose {
		l = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return l, func() { f.Close() }, nil
}
