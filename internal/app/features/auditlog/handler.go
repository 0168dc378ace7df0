// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	"github.com/dalemusser/portfolio/internal/app/store/audit"
	"go.uber.org/zap"
)

// Store is the read side of the audit trail the handler needs.
type Store interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	Count(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

type Handler struct {
	Events Store
	Log    *zap.Logger
}

// NewHandler constructs the audit-log handler over the given event store.
func NewHandler(events Store, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Log:    logger,
	}
}
