// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/app/system/auditlog"
	"github.com/dalemusser/portfolio/internal/app/system/auth"
	"github.com/dalemusser/portfolio/internal/app/system/cache"
	"github.com/dalemusser/portfolio/internal/app/system/respond"
	"github.com/dalemusser/portfolio/internal/app/system/timeouts"
	"github.com/dalemusser/portfolio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// cacheKey is the single entry the public read caches.
const cacheKey = "site_settings"

// Store is the settings persistence the handlers need.
type Store interface {
	Get(ctx context.Context) (models.SiteSettings, error)
	Save(ctx context.Context, s models.SiteSettings) (models.SiteSettings, error)
}

// Handler owns the public and admin settings endpoints.
type Handler struct {
	Settings Store
	Cache    *cache.Cache
	AuditLog *auditlog.Logger
	Log      *zap.Logger

	// gen counts saves. A public read only fills the cache if no save
	// landed while it was fetching.
	mu  sync.Mutex
	gen uint64
}

// NewHandler constructs a Handler. c and audit may be nil.
func NewHandler(store Store, c *cache.Cache, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Settings: store,
		Cache:    c,
		AuditLog: audit,
		Log:      logger,
	}
}

// ServePublic handles GET /api/public/settings. Responses are served from
// the cache until it expires or an admin saves.
func (h *Handler) ServePublic(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.Cache.Get(cacheKey); ok {
		if s, ok := v.(models.SiteSettings); ok {
			respond.Success(w, map[string]any{"settings": publicView(s)})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	h.mu.Lock()
	gen := h.gen
	h.mu.Unlock()

	s, err := h.Settings.Get(ctx)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	h.mu.Lock()
	if h.gen == gen {
		h.Cache.Set(cacheKey, s)
	}
	h.mu.Unlock()
	respond.Success(w, map[string]any{"settings": publicView(s)})
}

// publicView hides who last edited the settings.
func publicView(s models.SiteSettings) models.SiteSettings {
	s.UpdatedByID = nil
	s.UpdatedByName = ""
	return s
}

// ServeAdmin handles GET /api/admin/settings. Unsaved settings are
// reported as defaults so the editor always has something to show.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	s, err := h.current(ctx)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.Success(w, map[string]any{"settings": s})
}

func (h *Handler) current(ctx context.Context) (models.SiteSettings, error) {
	s, err := h.Settings.Get(ctx)
	if errors.Is(err, apierr.ErrSettingsNotFound) {
		return models.SiteSettings{SiteName: models.DefaultSiteName}, nil
	}
	return s, err
}

// HandleUpdate handles PATCH /api/admin/settings. Omitted fields keep
// their stored values.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Write(w, r, h.Log, apierr.ErrUnauthenticated)
		return
	}
	actorID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.ErrUnauthenticated)
		return
	}

	var in UpdateInput
	if err := respond.Decode(w, r, &in); err != nil {
		apierr.Write(w, r, h.Log, apierr.ErrBadRequest)
		return
	}
	if err := apierr.Validation(in.Validate()); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s, err := h.current(ctx)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	s = in.Apply(s)
	s.UpdatedByID = &actorID
	s.UpdatedByName = user.Name

	saved, err := h.Settings.Save(ctx, s)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.mu.Lock()
	h.gen++
	h.Cache.Delete(cacheKey)
	h.Cache.Set(cacheKey, saved)
	h.mu.Unlock()
	h.AuditLog.SettingsUpdated(ctx, r, actorID)

	h.Log.Info("site settings updated",
		zap.String("actor_id", actorID.Hex()),
		zap.String("site_name", saved.SiteName))

	respond.Success(w, map[string]any{
		"message":  "Settings updated successfully",
		"settings": saved,
	})
}
