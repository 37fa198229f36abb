package domainscope

import (
	"context"

	"domainscope/pkg/config"
	"domainscope/pkg/core"
	"domainscope/pkg/psl"
	"domainscope/pkg/server"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Run wires the suffix resolver, the analyzer and the HTTP server
// together and blocks until ctx stops or a component fails.
func Run(ctx context.Context, cfg config.Config) error {
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	suffixes := psl.NewResolver()

	analyzer, err := buildAnalyzer(cfg, suffixes)
	if err != nil {
		return err
	}
	defer analyzer.Close()

	srv := server.New(analyzer, server.Config{
		Username:              cfg.Username,
		Password:              cfg.Password,
		MaxConcurrent:         cfg.MaxConcurrent,
		DefaultTimeoutSeconds: cfg.TimeoutSeconds,
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return psl.Start(ctx, psl.UpdaterConfig{
			URL:      cfg.PSLURL,
			Interval: cfg.PSLInterval,
		}, suffixes)
	})

	g.Go(func() error {
		return server.Run(ctx, cfg.ListenAddr, srv.Handler())
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	log.Infoln("Stopped")
	return nil
}

func buildAnalyzer(cfg config.Config, suffixes core.SuffixResolver) (*core.Analyzer, error) {
	coreCfg := core.NewConfig()
	coreCfg.Collector = cfg.Collector
	coreCfg.NavigationTimeoutSeconds = cfg.TimeoutSeconds
	coreCfg.DwellSeconds = cfg.TimeoutSeconds
	return core.Init(coreCfg, suffixes)
}
