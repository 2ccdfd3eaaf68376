// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dalemusser/starterkit/internal/app/features/shared/views"
	"github.com/dalemusser/starterkit/internal/app/system/offline"
	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
	"github.com/dalemusser/starterkit/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the storage is
// open but before the HTTP handler is built. It parses the view templates
// and, in edge mode, registers the offline worker and starts its update
// loop.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	v, err := views.New(logger)
	if err != nil {
		return err
	}
	deps.Runtime.Views = v

	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	if !appCfg.EdgeMode() {
		return nil
	}
	return startEdge(appCfg, deps, logger)
}

func startEdge(appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	origin, err := url.Parse(appCfg.EdgeOrigin)
	if err != nil {
		return fmt.Errorf("parse edge_origin: %w", err)
	}
	fetcher, err := offline.NewHTTPFetcher(appCfg.EdgeOrigin, nil, appCfg.EdgeFetchTimeout)
	if err != nil {
		return err
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reg := offline.NewRegistry(profileSource(appCfg.SiteProfile, origin), offline.Deps{
		Storage: deps.Storage,
		Fetcher: fetcher,
		Metrics: offline.NewMetrics(promReg),
		Log:     logger.Named("offline"),
	}, appCfg.UpdateInterval)

	runCtx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		reg.Run(runCtx)
	}()

	rt := deps.Runtime
	rt.Registry, rt.Metrics, rt.stop, rt.done = reg, promReg, stop, done

	logger.Info("offline worker loop started",
		zap.String("origin", appCfg.EdgeOrigin),
		zap.String("storage", deps.StorageName),
		zap.Duration("update_interval", appCfg.UpdateInterval))
	return nil
}

// profileSource re-reads the site profile on every update check, so bumping
// offline.version in the file rolls out a new worker.
func profileSource(path string, origin *url.URL) offline.ConfigSource {
	return func(context.Context) (offline.Config, error) {
		p, err := siteconfig.Load(path)
		if err != nil {
			return offline.Config{}, err
		}
		if err := p.Validate(); err != nil {
			return offline.Config{}, err
		}
		return offline.ConfigFromProfile(p, origin), nil
	}
}
