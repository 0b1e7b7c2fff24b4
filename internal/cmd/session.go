package cmd

import (
	"fmt"
	"log/slog"

	"github.com/runger/cmdpal/internal/catalog"
	"github.com/runger/cmdpal/internal/config"
	cmdlog "github.com/runger/cmdpal/internal/log"
)

// session bundles what every catalog-reading command needs: config, paths
// and a logger that must be closed on exit.
type session struct {
	cfg      *config.Config
	paths    *config.Paths
	logger   *slog.Logger
	closeLog func() error
}

// openSession loads config, applies the --catalog flag and opens the logger.
func openSession(command string) (*session, error) {
	paths := config.DefaultPaths()
	cfg, err := config.LoadFromFile(paths.ConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if catalogPath != "" {
		cfg.Search.CatalogPath = catalogPath
	}

	logger, closeLog, err := cmdlog.Open(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	cmdlog.LogStartup(logger, cmdlog.StartupInfo{
		Version:     Version,
		Command:     command,
		ConfigPath:  paths.ConfigFile(),
		CatalogPath: cfg.CatalogFile(),
	})

	return &session{cfg: cfg, paths: paths, logger: logger, closeLog: closeLog}, nil
}

func (s *session) Close() {
	_ = s.closeLog()
}

// loadCatalog loads the configured catalog and returns it with its recent
// list trimmed to search.recent_limit.
func (s *session) loadCatalog() (*catalog.Catalog, []string, error) {
	path := s.cfg.CatalogFile()
	cat, err := catalog.Load(path)
	if err != nil {
		cmdlog.LogCatalogError(s.logger, path, err)
		return nil, nil, err
	}

	recent := cat.Recent
	if n := s.cfg.Search.RecentLimit; n > 0 && len(recent) > n {
		recent = recent[:n]
	}
	cmdlog.LogCatalogLoaded(s.logger, path, len(cat.Commands), len(recent))
	return cat, recent, nil
}
