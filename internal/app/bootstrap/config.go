// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dalemusser/starterkit/internal/app/system/offline"
	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// Cache storage backends.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageMongo  = "mongo"
)

// appConfigKeys defines the configuration keys for the starter kit.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: site_profile, cache_storage, etc.
//   - Environment variables: STARTERKIT_SITE_PROFILE, STARTERKIT_CACHE_STORAGE, etc.
//   - Command-line flags: --site_profile, --cache_storage, etc.
var appConfigKeys = []config.AppKey{
	{Name: "session_key", Default: "", Desc: "Session signing key (required in production; 32+ chars)"},
	{Name: "session_name", Default: "starterkit-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	{Name: "site_profile", Default: "", Desc: "Path to the YAML site profile (blank uses the built-in profile)"},
	{Name: "static_dir", Default: "public", Desc: "Directory with public files served under /app-images"},

	// Edge mode
	{Name: "edge_origin", Default: "", Desc: "Origin URL to front with the offline worker (blank serves the site)"},
	{Name: "edge_fetch_timeout", Default: "0s", Desc: "Timeout for each worker network fetch (0 means none)"},
	{Name: "update_interval", Default: "1h", Desc: "How often the worker checks for a new version"},
	{Name: "worker_token", Default: "", Desc: "Bearer token for /_worker and /metrics (blank allows loopback only; required in production)"},
	{Name: "worker_rate_limit", Default: 60, Desc: "Worker control requests allowed per minute per client IP"},

	// Timeouts
	{Name: "timeout_short", Default: "0s", Desc: "Timeout for single cache entry operations (0 keeps the default)"},
	{Name: "timeout_medium", Default: "0s", Desc: "Timeout for bucket-wide cache operations (0 keeps the default)"},
	{Name: "timeout_long", Default: "0s", Desc: "Timeout for sync and update checks (0 keeps the default)"},

	// Cache storage
	{Name: "cache_storage", Default: StorageMemory, Desc: "Worker cache storage: 'memory', 'sqlite' or 'mongo'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (cache_storage=mongo)"},
	{Name: "mongo_database", Default: "starterkit", Desc: "MongoDB database name (cache_storage=mongo)"},
	{Name: "sqlite_path", Default: "starterkit-cache.db", Desc: "SQLite database file (cache_storage=sqlite)"},

	// Lead form
	{Name: "lead_rate_limit", Default: 5, Desc: "Lead form submissions allowed per minute per client IP"},
	{Name: "mail_to", Default: "", Desc: "Lead notification recipient (blank uses the profile's mail_support)"},
	{Name: "mail_from", Default: "noreply@starterkit.test", Desc: "From email address"},
	{Name: "mail_from_name", Default: "StarterKit", Desc: "From display name"},
}

// LoadConfig loads WAFFLE core config and app-specific config, then reads
// the site profile and the public environment.
//
// WAFFLE's config.LoadWithAppConfig merges, with precedence
// flags > env (STARTERKIT_*) > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STARTERKIT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		SiteProfile: appValues.String("site_profile"),
		StaticDir:   appValues.String("static_dir"),

		EdgeOrigin:       strings.TrimSpace(appValues.String("edge_origin")),
		EdgeFetchTimeout: appValues.Duration("edge_fetch_timeout", 0),
		UpdateInterval:   appValues.Duration("update_interval", offline.DefaultUpdateInterval),

		WorkerToken:     strings.TrimSpace(appValues.String("worker_token")),
		WorkerRateLimit: appValues.Int("worker_rate_limit"),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),

		CacheStorage:  strings.ToLower(strings.TrimSpace(appValues.String("cache_storage"))),
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		SQLitePath:    appValues.String("sqlite_path"),

		LeadRateLimit: appValues.Int("lead_rate_limit"),
		MailTo:        appValues.String("mail_to"),
		MailFrom:      appValues.String("mail_from"),
		MailFromName:  appValues.String("mail_from_name"),
	}

	appCfg.Profile, err = siteconfig.Load(appCfg.SiteProfile)
	if err != nil {
		return nil, AppConfig{}, err
	}
	appCfg.PublicEnv, err = siteconfig.LoadPublicEnv()
	if err != nil {
		return nil, AppConfig{}, err
	}
	if appCfg.MailTo == "" {
		appCfg.MailTo = appCfg.Profile.MailSupport
	}

	logger.Info("site profile loaded",
		zap.String("path", appCfg.SiteProfile),
		zap.String("name", appCfg.Profile.Name),
		zap.String("offline_version", appCfg.Profile.Offline.Version),
		zap.String("mode", appCfg.Mode()))

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := appCfg.Profile.Validate(); err != nil {
		return err
	}

	switch appCfg.CacheStorage {
	case StorageMemory:
	case StorageSQLite:
		if strings.TrimSpace(appCfg.SQLitePath) == "" {
			return fmt.Errorf("cache_storage=sqlite requires sqlite_path")
		}
	case StorageMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("cache_storage=mongo requires mongo_database")
		}
	default:
		return fmt.Errorf("cache_storage %q must be memory, sqlite or mongo", appCfg.CacheStorage)
	}

	if appCfg.EdgeMode() {
		u, err := url.Parse(appCfg.EdgeOrigin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("edge_origin %q must be an absolute URL", appCfg.EdgeOrigin)
		}
	}
	if appCfg.EdgeFetchTimeout < 0 || appCfg.UpdateInterval < 0 {
		return fmt.Errorf("edge_fetch_timeout and update_interval must not be negative")
	}
	if appCfg.TimeoutShort < 0 || appCfg.TimeoutMedium < 0 || appCfg.TimeoutLong < 0 {
		return fmt.Errorf("timeout_short, timeout_medium and timeout_long must not be negative")
	}
	if appCfg.LeadRateLimit <= 0 {
		return fmt.Errorf("lead_rate_limit must be positive")
	}
	if appCfg.WorkerRateLimit <= 0 {
		return fmt.Errorf("worker_rate_limit must be positive")
	}
	if appCfg.WorkerToken != "" && len(appCfg.WorkerToken) < 16 {
		return fmt.Errorf("worker_token must be at least 16 characters")
	}
	prod := coreCfg != nil && coreCfg.Env == "prod"
	if prod && len(appCfg.SessionKey) < 32 {
		return fmt.Errorf("session_key must be at least 32 characters in production")
	}
	if prod && appCfg.EdgeMode() && appCfg.WorkerToken == "" {
		return fmt.Errorf("worker_token is required in production edge mode")
	}

	return nil
}
