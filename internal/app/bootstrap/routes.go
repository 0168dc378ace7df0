// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"
	"strings"

	auditlogfeature "github.com/dalemusser/portfolio/internal/app/features/auditlog"
	dashboardfeature "github.com/dalemusser/portfolio/internal/app/features/dashboard"
	healthfeature "github.com/dalemusser/portfolio/internal/app/features/health"
	loginfeature "github.com/dalemusser/portfolio/internal/app/features/login"
	profilefeature "github.com/dalemusser/portfolio/internal/app/features/profile"
	projectsfeature "github.com/dalemusser/portfolio/internal/app/features/projects"
	settingsfeature "github.com/dalemusser/portfolio/internal/app/features/settings"
	userinfofeature "github.com/dalemusser/portfolio/internal/app/features/userinfo"
	"github.com/dalemusser/portfolio/internal/app/store/audit"
	projectstore "github.com/dalemusser/portfolio/internal/app/store/projects"
	settingsstore "github.com/dalemusser/portfolio/internal/app/store/settings"
	userstore "github.com/dalemusser/portfolio/internal/app/store/users"
	"github.com/dalemusser/portfolio/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. The router applies the route guard globally,
// serves the auth API and the guarded pages, puts /api/admin behind
// RequireSignedIn, and opens /api/public to the site origin via CORS.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if svc == nil {
		return nil, fmt.Errorf("BuildHandler called before Startup")
	}

	// One session manager is the single source of auth configuration.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.TokenIssuer, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase)
	projects := projectstore.New(deps.MongoDatabase)

	// API requests compare the token's version with the stored one so a
	// password change signs out every other session.
	sessionMgr.SetVersionChecker(users)

	r := chi.NewRouter()

	// Global guard: redirects for /login and /admin, claims into context.
	r.Use(sessionMgr.Guard)

	// Health and metrics for load balancers and scrapers
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", svc.metrics.Handler())

	// Authentication
	loginHandler := loginfeature.NewHandler(users, sessionMgr, svc.auditLog, svc.metrics, svc.loginLimiter, logger)
	authAPI := loginfeature.Routes(loginHandler)
	userinfofeature.MountRoutes(authAPI, userinfofeature.NewHandler())
	r.Mount("/api/auth", authAPI)
	r.Mount("/login", loginfeature.PageRoutes(loginHandler))

	// Admin pages (guarded globally)
	dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/admin/dashboard", dashboardfeature.Routes(dashboardHandler))

	projectsHandler := projectsfeature.NewHandler(projects, svc.clients, svc.metrics, logger)
	settingsHandler := settingsfeature.NewHandler(settingsstore.New(deps.MongoDatabase), svc.cache, svc.auditLog, logger)
	profileHandler := profilefeature.NewHandler(users, svc.auditLog, logger)
	auditHandler := auditlogfeature.NewHandler(audit.New(deps.MongoDatabase), logger)

	// Admin API
	r.Route("/api/admin", func(ar chi.Router) {
		ar.Use(sessionMgr.RequireSignedIn)
		ar.Mount("/profile", profilefeature.Routes(profileHandler))
		ar.Group(func(adm chi.Router) {
			adm.Use(sessionMgr.RequireRole("admin"))
			adm.Mount("/projects", projectsfeature.AdminRoutes(projectsHandler))
			adm.Mount("/settings", settingsfeature.AdminRoutes(settingsHandler))
			adm.Mount("/audit-events", auditlogfeature.Routes(auditHandler))
		})
	})

	// Public API
	limit := svc.limiter.Middleware(logger, func(*http.Request) { svc.metrics.RateLimited.Inc() })
	r.Route("/api/public", func(pr chi.Router) {
		pr.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins(coreCfg.Env, appCfg.BaseURL),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
		pr.Mount("/projects", projectsfeature.PublicRoutes(projectsHandler, limit))
		pr.Mount("/settings", settingsfeature.PublicRoutes(settingsHandler))
	})

	return r, nil
}

// allowedOrigins returns the CORS origins of the public API. Dev accepts any
// origin so a local frontend on another port works.
func allowedOrigins(env, baseURL string) []string {
	if env == "dev" {
		return []string{"*"}
	}
	return []string{strings.TrimRight(baseURL, "/")}
}
