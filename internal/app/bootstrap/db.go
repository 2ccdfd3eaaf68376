// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/starterkit/internal/app/store/buckets"
	"github.com/dalemusser/starterkit/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the worker cache storage. Site mode has no cache and
// connects to nothing.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	deps := DBDeps{StorageName: "none", Runtime: &Runtime{}}
	if !appCfg.EdgeMode() {
		return deps, nil
	}

	deps.StorageName = appCfg.CacheStorage
	switch appCfg.CacheStorage {
	case StorageSQLite:
		s, err := buckets.OpenSQLite(appCfg.SQLitePath)
		if err != nil {
			return DBDeps{}, err
		}
		deps.Storage, deps.SQLite, deps.Ping = s, s, s.Ping
		logger.Info("cache storage opened",
			zap.String("storage", StorageSQLite), zap.String("path", appCfg.SQLitePath))

	case StorageMongo:
		connCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
		defer cancel()

		client, err := mongo.Connect(connCtx, options.Client().ApplyURI(appCfg.MongoURI))
		if err != nil {
			return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(connCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(ctx)
			return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
		}
		m := buckets.NewMongo(client.Database(appCfg.MongoDatabase))
		deps.Storage, deps.Mongo, deps.MongoClient = m, m, client
		deps.Ping = func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}
		logger.Info("cache storage opened",
			zap.String("storage", StorageMongo), zap.String("database", appCfg.MongoDatabase))

	default:
		deps.Storage = buckets.NewMemory()
		logger.Info("cache storage opened", zap.String("storage", StorageMemory))
	}
	return deps, nil
}

// EnsureSchema creates the MongoDB cache indexes. The SQLite schema is
// created when the file is opened.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Mongo == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()
	if err := deps.Mongo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure cache indexes: %w", err)
	}
	logger.Info("cache indexes ensured")
	return nil
}
