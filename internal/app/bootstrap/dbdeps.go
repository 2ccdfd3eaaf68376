// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/starterkit/internal/app/features/health"
	"github.com/dalemusser/starterkit/internal/app/features/shared/views"
	"github.com/dalemusser/starterkit/internal/app/store/buckets"
	"github.com/dalemusser/starterkit/internal/app/system/offline"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the cache storage backend and the runtime state shared by
// the lifecycle hooks.
type DBDeps struct {
	Storage     offline.Storage
	StorageName string
	Ping        health.PingFunc

	// Set for the backend in use, so Shutdown can release it.
	MongoClient *mongo.Client
	Mongo       *buckets.Mongo
	SQLite      *buckets.SQLite

	Runtime *Runtime
}

// Runtime is populated by Startup and read by BuildHandler and Shutdown.
type Runtime struct {
	Views    *views.Renderer
	Registry *offline.Registry
	Metrics  *prometheus.Registry

	stop context.CancelFunc
	done chan struct{}
}
