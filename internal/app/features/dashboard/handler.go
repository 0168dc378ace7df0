// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/portfolio/internal/app/store/audit"
	metricsstore "github.com/dalemusser/portfolio/internal/app/store/metrics"
	projectstore "github.com/dalemusser/portfolio/internal/app/store/projects"
	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/app/system/auth"
	"github.com/dalemusser/portfolio/internal/app/system/respond"
	"github.com/dalemusser/portfolio/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	topProjects  = 5
	recentEvents = 10
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
	}
}

// ServeDashboard handles GET /admin/dashboard. The route guard has already
// turned away anonymous and non-admin callers; the check here covers
// mounting it somewhere else.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Write(w, r, h.Log, apierr.ErrUnauthenticated)
		return
	}
	if !user.IsAdmin() {
		apierr.Write(w, r, h.Log, apierr.ErrForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, h.DB)

	summary, err := projectstore.New(h.DB).Summary(ctx)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	if len(summary) > topProjects {
		summary = summary[:topProjects]
	}

	events, err := audit.New(h.DB).Query(ctx, audit.QueryFilter{Limit: recentEvents})
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	h.Log.Debug("admin dashboard served", zap.String("user", user.Email))

	respond.Success(w, map[string]any{
		"user":         user,
		"counts":       counts,
		"topProjects":  summary,
		"recentEvents": events,
	})
}
