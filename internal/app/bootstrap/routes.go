// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	edgefeature "github.com/dalemusser/starterkit/internal/app/features/edge"
	errorsfeature "github.com/dalemusser/starterkit/internal/app/features/errors"
	healthfeature "github.com/dalemusser/starterkit/internal/app/features/health"
	homefeature "github.com/dalemusser/starterkit/internal/app/features/home"
	leadformfeature "github.com/dalemusser/starterkit/internal/app/features/leadform"
	loginfeature "github.com/dalemusser/starterkit/internal/app/features/login"
	logoutfeature "github.com/dalemusser/starterkit/internal/app/features/logout"
	pagesfeature "github.com/dalemusser/starterkit/internal/app/features/pages"
	"github.com/dalemusser/starterkit/internal/app/features/shared/views"
	sitedocsfeature "github.com/dalemusser/starterkit/internal/app/features/sitedocs"
	"github.com/dalemusser/starterkit/internal/app/system/auth"
	"github.com/dalemusser/starterkit/internal/app/system/mailer"
	"github.com/dalemusser/starterkit/internal/app/system/offline"
	"github.com/dalemusser/starterkit/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, storage, schema setup, and the
// Startup hook have completed. In site mode the router serves the pages,
// the SEO and PWA documents, the lead form and the mock login. In edge mode
// it serves the offline worker in front of edge_origin plus the worker
// control endpoints.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.StorageName, appCfg.Mode(), deps.Ping, logger)

	if appCfg.EdgeMode() {
		r.Mount("/health", healthfeature.Routes(healthHandler))
		if err := mountEdge(r, appCfg, deps, logger); err != nil {
			return nil, err
		}
		return r, nil
	}

	if deps.Runtime == nil || deps.Runtime.Views == nil {
		return nil, fmt.Errorf("views are not loaded; Startup must run before BuildHandler")
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	site := views.NewSite(appCfg.Profile, appCfg.PublicEnv, deps.Runtime.Views, logger)

	// Global session middleware: puts the SessionContext into every request.
	r.Use(sessionMgr.LoadSession)

	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Error pages; mounted subrouters inherit them.
	errorsHandler := errorsfeature.NewHandler(site, logger)
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Precached images, icons and the rest of the public files
	r.Handle("/app-images/*", fileserver.Handler("/app-images", filepath.Join(appCfg.StaticDir, "app-images")))

	// robots.txt, sitemap.xml, manifest.webmanifest
	docsHandler := sitedocsfeature.NewHandler(appCfg.Profile, appCfg.PublicEnv, logger)
	sitedocsfeature.Register(r, docsHandler)

	// Root layout
	homeHandler := homefeature.NewHandler(site, logger)
	r.Get("/", homeHandler.ServeRoot)

	// Lead form API and its intercepted modal
	limiter := ratelimit.New(appCfg.LeadRateLimit, time.Minute)
	mail := mailer.New(appCfg.MailFrom, appCfg.MailFromName, logger)
	leadHandler := leadformfeature.NewHandler(site, mail, appCfg.MailTo, limiter, logger)
	r.Mount("/api/lead-form", leadformfeature.Routes(leadHandler))
	r.Mount("/interception_modal", leadformfeature.ModalRoutes(leadHandler))

	// Mock authentication
	loginHandler := loginfeature.NewHandler(site, sessionMgr, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(site, sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Public pages; unknown paths render the 404 page.
	pagesHandler := pagesfeature.NewHandler(site, errorsHandler, logger)
	r.Mount("/", pagesfeature.Routes(pagesHandler))

	return r, nil
}

// mountEdge routes everything except /health through the offline worker.
func mountEdge(r chi.Router, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	rt := deps.Runtime
	if rt == nil || rt.Registry == nil {
		return fmt.Errorf("offline worker is not started; Startup must run before BuildHandler")
	}
	origin, err := url.Parse(appCfg.EdgeOrigin)
	if err != nil {
		return fmt.Errorf("parse edge_origin: %w", err)
	}

	edgeHandler := edgefeature.NewHandler(rt.Registry, logger)
	r.Group(func(r chi.Router) {
		r.Use(ratelimit.New(appCfg.WorkerRateLimit, time.Minute).Middleware)
		r.Use(edgefeature.RequireToken(appCfg.WorkerToken, logger))
		r.Mount("/_worker", edgefeature.Routes(edgeHandler))
		r.Handle("/metrics", edgefeature.MetricsHandler(rt.Metrics))
	})

	r.Handle("/*", offline.NewHandler(rt.Registry, origin, logger))
	return nil
}
