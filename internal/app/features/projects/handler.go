// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"strings"

	projectstore "github.com/dalemusser/portfolio/internal/app/store/projects"
	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/app/system/clientinfo"
	"github.com/dalemusser/portfolio/internal/app/system/metrics"
	"github.com/dalemusser/portfolio/internal/app/system/respond"
	"github.com/dalemusser/portfolio/internal/app/system/timeouts"
	"github.com/dalemusser/portfolio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RecentWindow is how many events per category the stats read returns.
const RecentWindow = 10

// Store is the slice of projectstore the handlers use.
type Store interface {
	List(ctx context.Context) ([]models.Project, error)
	RecordClick(ctx context.Context, id primitive.ObjectID, lt models.LinkType, ev models.ClickEvent) error
	ClickStats(ctx context.Context, id primitive.ObjectID, recent int) (*models.ClickStats, error)
	Summary(ctx context.Context) ([]projectstore.ClickSummary, error)
}

// Handler serves the public project and click-tracking endpoints plus the
// admin click summary.
type Handler struct {
	Projects Store
	Clients  *clientinfo.Resolver
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

// NewHandler wires a Handler. m may be nil.
func NewHandler(store Store, clients *clientinfo.Resolver, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		Projects: store,
		Clients:  clients,
		Metrics:  m,
		Log:      logger,
	}
}

// trackClickInput is the body of POST /api/public/projects/track-click.
// Nothing but the target is accepted from the client; the event itself is
// derived from the request.
type trackClickInput struct {
	ProjectID string `json:"projectId"`
	LinkType  string `json:"linkType"`
}

var errUnknownLinkType = &apierr.Error{
	Kind:    apierr.KindBadRequest,
	Status:  http.StatusBadRequest,
	Message: "Invalid link type",
}

func parseProjectID(raw string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, apierr.ErrInvalidProjectID
	}
	return oid, nil
}

func (h *Handler) countFailure(reason string) {
	if h.Metrics != nil {
		h.Metrics.ClickFailures.WithLabelValues(reason).Inc()
	}
}

// HandleTrackClick records one click.
func (h *Handler) HandleTrackClick(w http.ResponseWriter, r *http.Request) {
	var in trackClickInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.countFailure("bad_request")
		apierr.Write(w, r, h.Log, apierr.ErrBadRequest)
		return
	}
	lt, ok := models.ParseLinkType(in.LinkType)
	if !ok {
		h.countFailure("bad_link_type")
		apierr.Write(w, r, h.Log, errUnknownLinkType)
		return
	}
	oid, err := parseProjectID(in.ProjectID)
	if err != nil {
		h.countFailure("bad_project_id")
		apierr.Write(w, r, h.Log, err)
		return
	}

	ev := h.Clients.Event(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Projects.RecordClick(ctx, oid, lt, ev); err != nil {
		if errors.Is(err, apierr.ErrProjectNotFound) {
			h.countFailure("not_found")
		} else {
			h.countFailure("store")
		}
		apierr.Write(w, r, h.Log, err)
		return
	}

	if h.Metrics != nil {
		h.Metrics.Clicks.WithLabelValues(string(lt)).Inc()
	}
	h.Log.Debug("click recorded",
		zap.String("project_id", oid.Hex()),
		zap.String("link_type", string(lt)),
		zap.String("device", ev.Device))

	respond.Success(w, map[string]any{"message": "Click tracked successfully"})
}

// linkStats is one category in the stats response.
type linkStats struct {
	Count  int                 `json:"count"`
	Recent []models.ClickEvent `json:"recentClicks"`
}

// ServeClickStats returns the totals and recent events of one project.
func (h *Handler) ServeClickStats(w http.ResponseWriter, r *http.Request) {
	oid, err := parseProjectID(r.URL.Query().Get("projectId"))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	stats, err := h.Projects.ClickStats(ctx, oid, RecentWindow)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	byType := make(map[string]linkStats, len(models.LinkTypes))
	for _, lt := range models.LinkTypes {
		lc := stats.For(lt)
		byType[string(lt)] = linkStats{Count: lc.Count, Recent: lc.Clicks}
	}
	respond.Success(w, map[string]any{
		"stats": map[string]any{
			"totalClicks": stats.TotalClicks,
			"byLinkType":  byType,
		},
	})
}

// ServeList returns the public project list without analytics.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Projects.List(ctx)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.Success(w, map[string]any{"projects": list})
}

// ServeSummary returns per-project click counters for the admin area.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Projects.Summary(ctx)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	total := 0
	for _, row := range rows {
		total += row.TotalClicks
	}
	respond.Success(w, map[string]any{
		"projects":    rows,
		"totalClicks": total,
	})
}
