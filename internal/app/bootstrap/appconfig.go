// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (PORTFOLIO_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers ports, TLS, log level and the environment name; everything the
// portfolio itself needs lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session tokens and the cookie that carries them
	SessionKey    string        // signs both the JWT and the cookie; 32+ chars
	SessionName   string        // cookie name
	SessionDomain string        // blank means current host
	SessionTTL    time.Duration // token lifetime
	TokenIssuer   string

	// Public site origin, used for CORS on the public API
	BaseURL string

	// Peers allowed to set X-Forwarded-For; blank trusts none
	TrustedProxies string

	// Sign-in attempts per IP per minute and per email per 5 minutes; 0 disables
	LoginIPLimit    int
	LoginEmailLimit int

	// Click analytics
	GeoIPDBPath     string  // MaxMind City database; blank disables geolocation
	TrackClickRPS   float64 // per-IP refill rate; 0 disables limiting
	TrackClickBurst int

	// Public settings cache lifetime; 0 disables caching
	SettingsCacheTTL time.Duration

	// Bootstrap admin, created on startup when no user has this email
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// Audit logging: all | db | log | off
	AuditLog string
}
