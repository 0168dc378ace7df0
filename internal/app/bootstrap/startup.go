// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dalemusser/portfolio/internal/app/store/audit"
	userstore "github.com/dalemusser/portfolio/internal/app/store/users"
	"github.com/dalemusser/portfolio/internal/app/system/auditlog"
	"github.com/dalemusser/portfolio/internal/app/system/authutil"
	"github.com/dalemusser/portfolio/internal/app/system/cache"
	"github.com/dalemusser/portfolio/internal/app/system/clientinfo"
	"github.com/dalemusser/portfolio/internal/app/system/metrics"
	"github.com/dalemusser/portfolio/internal/app/system/ratelimit"
	"github.com/dalemusser/portfolio/internal/app/system/timeouts"
	"github.com/dalemusser/portfolio/internal/app/system/workers"
	"github.com/dalemusser/portfolio/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// pruneInterval is how often idle rate-limit buckets are dropped.
const pruneInterval = 5 * time.Minute

// services are the process-wide resources built in Startup, used by
// BuildHandler and released in Shutdown.
type services struct {
	geo          io.Closer
	clients      *clientinfo.Resolver
	limiter      *ratelimit.Limiter
	loginLimiter *ratelimit.LoginLimiter
	cache        *cache.Cache
	metrics      *metrics.Metrics
	auditLog     *auditlog.Logger
	workers      []*workers.BucketPrune
}

var svc *services

// release stops the workers and closes what Startup opened. It is safe on
// a partially built value.
func (s *services) release(logger *zap.Logger) {
	for _, w := range s.workers {
		w.Stop()
	}
	s.cache.Close()
	if s.geo != nil {
		if err := s.geo.Close(); err != nil {
			logger.Warn("geoip close failed", zap.Error(err))
		}
	}
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts configured from environment",
			zap.Duration("ping", cur.Ping),
			zap.Duration("short", cur.Short),
			zap.Duration("medium", cur.Medium))
	}

	if err := clientinfo.SetTrustedProxies(appCfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted_proxies: %w", err)
	}

	s := &services{metrics: metrics.New()}
	started := false
	defer func() {
		if !started {
			s.release(logger)
		}
	}()

	s.auditLog = auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLog,
		Admin: appCfg.AuditLog,
	})

	if appCfg.GeoIPDBPath != "" {
		geo, err := clientinfo.OpenGeoIP(appCfg.GeoIPDBPath)
		if err != nil {
			return fmt.Errorf("open geoip database: %w", err)
		}
		s.geo = geo
		s.clients = clientinfo.NewResolver(geo, logger)
		logger.Info("geolocation enabled", zap.String("path", appCfg.GeoIPDBPath))
	} else {
		s.clients = clientinfo.NewResolver(nil, logger)
		logger.Info("geolocation disabled (geoip_db_path not set)")
	}

	c, err := cache.New(appCfg.SettingsCacheTTL)
	if err != nil {
		return err
	}
	s.cache = c

	s.limiter = ratelimit.New(appCfg.TrackClickRPS, appCfg.TrackClickBurst)
	s.loginLimiter = ratelimit.NewLoginLimiter(appCfg.LoginIPLimit, time.Minute, appCfg.LoginEmailLimit, 5*time.Minute)
	s.workers = []*workers.BucketPrune{
		workers.NewBucketPrune(s.limiter, logger, pruneInterval),
		workers.NewBucketPrune(s.loginLimiter, logger, pruneInterval),
	}

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg, s.auditLog, logger); err != nil {
			return err
		}
	}

	for _, w := range s.workers {
		w.Start()
	}

	started = true
	svc = s
	return nil
}

// ensureAdmin creates the configured admin unless a user with that email
// already exists. Existing users are never modified.
func ensureAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, auditLog *auditlog.Logger, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	hash, err := authutil.HashPassword(appCfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash bootstrap admin password: %w", err)
	}

	u, err := userstore.New(deps.MongoDatabase).Create(ctx, models.User{
		Name:     appCfg.AdminName,
		Email:    appCfg.AdminEmail,
		Password: hash,
		Role:     models.RoleAdmin,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		logger.Info("bootstrap admin already present", zap.String("email", appCfg.AdminEmail))
		return nil
	}
	if err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	auditLog.AdminBootstrapped(ctx, u.ID, u.Email)
	logger.Info("bootstrap admin created", zap.String("email", u.Email))
	return nil
}
