package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/qgen/internal/config"
	"github.com/abhisek/qgen/internal/extract"
	"github.com/abhisek/qgen/internal/qgen"
	"github.com/abhisek/qgen/internal/store"
	"github.com/abhisek/qgen/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address for the web UI")
}

// runServe opens the store, builds the lazy question model and serves the
// web UI until interrupted.
func runServe(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	var repo store.EventRepo
	if st != nil {
		defer st.Close()
		repo = st.EventRepo()
		pruneUsage(ctx, repo, cfg.Store.KeepEvents, logger)
	}

	handler, err := newWebHandler(cfg, repo, logger)
	if err != nil {
		return err
	}

	logger.Info("serving web UI", "addr", "http://"+cfg.Server.Addr, "provider", cfg.LLM.Provider)
	if err := web.Serve(ctx, cfg.Server.Addr, handler); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("shut down")
	return nil
}

func newWebHandler(cfg config.Config, repo store.EventRepo, logger *slog.Logger) (*web.Handler, error) {
	loader := qgen.NewProviderLoader(cfg.LLM, generatorConfig(cfg), repo, logger)
	return web.NewHandler(loader, extract.New(cfg.Server.MaxUploadBytes), web.Options{
		DefaultCount:   cfg.Generation.DefaultCount,
		MaxLength:      cfg.Generation.MaxLength,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}, logger)
}

func generatorConfig(cfg config.Config) qgen.Config {
	genCfg := qgen.DefaultConfig()
	genCfg.MaxLength = cfg.Generation.MaxLength
	return genCfg
}

// pruneUsage trims the usage log to the newest keep events. Failures are
// logged; the log is best-effort.
func pruneUsage(ctx context.Context, repo store.EventRepo, keep int, logger *slog.Logger) {
	if keep <= 0 {
		return
	}
	n, err := repo.Prune(ctx, keep)
	if err != nil {
		logger.Warn("prune usage events", "err", err)
		return
	}
	if n > 0 {
		logger.Info("pruned usage events", "deleted", n, "kept", keep)
	}
}
