package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/qgen/internal/config"
	"github.com/abhisek/qgen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "qgen",
	Short: "Generate questions from documents",
	Long: "qgen turns a passage of text and an answer into questions whose answer it is.\n" +
		"Run without a subcommand to start the web UI.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (overrides QGEN_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QGEN_DB env var)")
	rootCmd.PersistentFlags().String("provider", "", "Inference provider: huggingface, openai, gemini, anthropic, or mock (tests only, always fails)")
	rootCmd.Flags().String("addr", "", "Listen address for the web UI")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers defaults, the config file, the environment and the
// persistent flags, then builds the logger.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("QGEN_CONFIG")
	}

	cfg, err := config.Load(path, func(c *config.Config) {
		if p, _ := cmd.Flags().GetString("provider"); p != "" {
			c.LLM.Provider = p
		}
		if p, _ := cmd.Flags().GetString("db"); p != "" {
			c.Store.Path = p
		}
	})
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured store path, then QGEN_DB and the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

// openStore opens the usage-event log, or returns nil when it is disabled.
func openStore(cmd *cobra.Command, cfg config.Config) (*store.Store, error) {
	if !cfg.Store.Enabled {
		return nil, nil
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
