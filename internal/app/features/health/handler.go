package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/portfolio/internal/app/system/respond"
	"github.com/dalemusser/portfolio/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is the part of *mongo.Client the health check needs.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client  Pinger
	Log     *zap.Logger
	started time.Time
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		Client:  client,
		Log:     logger,
		started: time.Now(),
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
	Message  string `json:"message,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "uptime":"1h2m3s" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Uptime:   time.Since(h.started).Round(time.Second).String(),
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		respond.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}
