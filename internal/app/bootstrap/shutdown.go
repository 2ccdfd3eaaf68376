// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the worker loop and releases the cache storage.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	var errs []error

	if rt := deps.Runtime; rt != nil && rt.stop != nil {
		rt.stop()
		select {
		case <-rt.done:
			logger.Info("offline worker loop stopped")
		case <-ctx.Done():
			logger.Warn("offline worker loop did not stop before shutdown deadline")
		}
	}

	if deps.SQLite != nil {
		logger.Info("closing SQLite cache storage")
		if err := deps.SQLite.Close(); err != nil {
			logger.Error("SQLite close failed", zap.Error(err))
			errs = append(errs, err)
		}
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
