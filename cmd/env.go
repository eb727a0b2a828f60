package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/config"
	"github.com/abhisek/quizling/internal/logging"
	"github.com/abhisek/quizling/internal/store"
)

// env is what a command needs: config, logger and, on request, the store
// and the game catalog.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	catalog *catalog.Catalog
}

type envOpts struct {
	store   bool
	catalog bool
}

// loadConfig reads the config and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if d, _ := cmd.Flags().GetString("games-dir"); d != "" {
		cfg.GamesDir = d
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	return cfg, nil
}

func openEnv(cmd *cobra.Command, opts envOpts) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	e := &env{cfg: cfg, logger: logger}

	if opts.store {
		if err := store.EnsureDir(cfg.DBPath); err != nil {
			e.Close()
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		e.store = st
	}

	if opts.catalog {
		cat, err := catalog.Load(catalog.Options{
			AppVersion: version,
			Dirs:       []string{cfg.GamesDir},
			Logger:     logger,
		})
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("load games: %w", err)
		}
		e.catalog = cat
	}
	return e, nil
}

// Close releases the store and flushes the logger.
func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("close store", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}
