// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging and request limits; AppConfig carries everything
// specific to the starter kit.
type AppConfig struct {
	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: starterkit-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Site profile
	SiteProfile string             // Path to the YAML site profile; blank uses the embedded default
	Profile     siteconfig.Profile // Loaded profile
	PublicEnv   siteconfig.PublicEnv
	StaticDir   string // Directory holding app-images and other public files

	// Edge mode. A non-empty EdgeOrigin turns the server into the offline
	// worker in front of that origin.
	EdgeOrigin       string
	EdgeFetchTimeout time.Duration // 0 means no timeout
	UpdateInterval   time.Duration // how often the worker checks for a new version

	// Worker control surface (/_worker and /metrics). A blank WorkerToken
	// limits it to loopback callers.
	WorkerToken     string
	WorkerRateLimit int // requests per minute per client IP

	// Handler operation timeouts; zero keeps the built-in default.
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Cache storage backend: "memory", "sqlite" or "mongo"
	CacheStorage  string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string

	// Lead form
	LeadRateLimit int    // submissions per minute per client IP
	MailTo        string // lead recipient; blank uses the profile's support address
	MailFrom      string
	MailFromName  string
}

// EdgeMode reports whether the server runs as the offline worker.
func (c AppConfig) EdgeMode() bool {
	return c.EdgeOrigin != ""
}

// Mode names the server mode for logs and the health endpoint.
func (c AppConfig) Mode() string {
	if c.EdgeMode() {
		return "edge"
	}
	return "site"
}
