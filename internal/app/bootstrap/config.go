// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/portfolio/internal/app/system/auditlog"
	"github.com/dalemusser/portfolio/internal/app/system/authutil"
	"github.com/dalemusser/portfolio/internal/app/system/clientinfo"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minSessionKeyLen is enforced outside dev so production never runs on a
// guessable signing key.
const minSessionKeyLen = 32

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for the portfolio.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: PORTFOLIO_MONGO_URI, PORTFOLIO_SESSION_KEY, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "portfolio", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	{Name: "session_key", Default: devSessionKey, Desc: "Token and cookie signing key (must be strong in production)"},
	{Name: "session_name", Default: "portfolio-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_ttl", Default: "24h", Desc: "Session token lifetime (e.g., 24h, 90m)"},
	{Name: "token_issuer", Default: "portfolio", Desc: "Issuer claim of session tokens"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Public site origin allowed by CORS on /api/public"},
	{Name: "trusted_proxies", Default: clientinfo.DefaultTrustedProxies, Desc: "Comma-separated CIDRs/IPs whose X-Forwarded-For is believed (blank trusts none)"},

	// Login throttling
	{Name: "login_ip_limit", Default: 10, Desc: "Sign-in attempts per IP per minute (0 disables)"},
	{Name: "login_email_limit", Default: 5, Desc: "Sign-in attempts per email per 5 minutes (0 disables)"},

	// Click analytics
	{Name: "geoip_db_path", Default: "", Desc: "Path to a MaxMind GeoLite2/GeoIP2 City database (blank disables geolocation)"},
	{Name: "track_click_rps", Default: "2", Desc: "Per-IP track-click rate in requests/second (0 disables limiting)"},
	{Name: "track_click_burst", Default: 10, Desc: "Per-IP track-click burst"},

	{Name: "settings_cache_ttl", Default: "60s", Desc: "Public settings cache lifetime (0 disables caching)"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the admin created on startup when absent"},
	{Name: "admin_password", Default: "", Desc: "Password of the bootstrap admin"},
	{Name: "admin_name", Default: "Site Admin", Desc: "Display name of the bootstrap admin"},

	{Name: "audit_log", Default: "all", Desc: "Audit logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, PORTFOLIO_* for the app) and
// flags with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PORTFOLIO", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	rps, err := parseRate(appValues.String("track_click_rps"))
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionTTL:    appValues.Duration("session_ttl", 24*time.Hour),
		TokenIssuer:   appValues.String("token_issuer"),

		BaseURL:        appValues.String("base_url"),
		TrustedProxies: appValues.String("trusted_proxies"),

		LoginIPLimit:    appValues.Int("login_ip_limit"),
		LoginEmailLimit: appValues.Int("login_email_limit"),

		GeoIPDBPath:     appValues.String("geoip_db_path"),
		TrackClickRPS:   rps,
		TrackClickBurst: appValues.Int("track_click_burst"),

		SettingsCacheTTL: appValues.Duration("settings_cache_ttl", time.Minute),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
		AdminName:     appValues.String("admin_name"),

		AuditLog: appValues.String("audit_log"),
	}

	return coreCfg, appCfg, nil
}

func parseRate(raw string) (float64, error) {
	rps, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid track_click_rps %q: %w", raw, err)
	}
	return rps, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is checked before any connection attempt.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	if coreCfg.Env != "dev" {
		if appCfg.SessionKey == devSessionKey {
			return fmt.Errorf("session_key must be set outside dev")
		}
		if len(appCfg.SessionKey) < minSessionKeyLen {
			return fmt.Errorf("session_key must be at least %d characters", minSessionKeyLen)
		}
	}
	if appCfg.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}

	if appCfg.TrackClickRPS < 0 || appCfg.TrackClickBurst < 0 {
		return fmt.Errorf("track_click_rps and track_click_burst must not be negative")
	}
	if appCfg.TrackClickRPS > 0 && appCfg.TrackClickBurst == 0 {
		return fmt.Errorf("track_click_burst must be at least 1 when rate limiting is on")
	}

	if appCfg.LoginIPLimit < 0 || appCfg.LoginEmailLimit < 0 {
		return fmt.Errorf("login_ip_limit and login_email_limit must not be negative")
	}
	if _, err := clientinfo.ParseTrustedProxies(appCfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted_proxies: %w", err)
	}

	if !auditlog.ValidMode(appCfg.AuditLog) {
		return fmt.Errorf("audit_log must be one of all, db, log, off (got %q)", appCfg.AuditLog)
	}

	if appCfg.AdminEmail != "" {
		if !authutil.IsValidEmail(appCfg.AdminEmail) {
			return fmt.Errorf("admin_email %q is not a valid email address", appCfg.AdminEmail)
		}
		if err := authutil.ValidatePassword(appCfg.AdminPassword); err != nil {
			return fmt.Errorf("admin_password: %w", err)
		}
	}

	return nil
}
