// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/portfolio/internal/app/store/audit"
	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/app/system/normalize"
	"github.com/dalemusser/portfolio/internal/app/system/respond"
	"github.com/dalemusser/portfolio/internal/app/system/timeouts"
	"go.uber.org/zap"
)

var errBadFilter = &apierr.Error{Kind: apierr.KindBadRequest, Status: http.StatusBadRequest, Message: "Invalid audit filter"}

// parseFilter reads category, event_type, since (YYYY-MM-DD or RFC 3339)
// and page from the query string.
func parseFilter(r *http.Request) (audit.QueryFilter, int, error) {
	q := r.URL.Query()
	f := audit.QueryFilter{
		Category:  normalize.QueryParam(q.Get("category")),
		EventType: normalize.QueryParam(q.Get("event_type")),
		Limit:     pageSize,
	}
	if f.Category != "" && !validCategory(f.Category) {
		return f, 0, errBadFilter
	}
	if f.EventType != "" && !validEventType(f.Category, f.EventType) {
		return f, 0, errBadFilter
	}

	if s := normalize.QueryParam(q.Get("since")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			t, err = time.Parse(time.RFC3339, s)
		}
		if err != nil {
			return f, 0, errBadFilter
		}
		t = t.UTC()
		f.Since = &t
	}

	pg := 1
	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return f, 0, errBadFilter
		}
		pg = n
	}
	f.Offset = int64((pg - 1) * pageSize)
	return f, pg, nil
}

// ServeList handles GET /api/admin/audit-events.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, pg, err := parseFilter(r)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	total, err := h.Events.Count(ctx, filter)
	if err != nil {
		apierr.Write(w, r, h.Log, fmt.Errorf("count audit events: %w", err))
		return
	}
	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		apierr.Write(w, r, h.Log, fmt.Errorf("query audit events: %w", err))
		return
	}

	pages := totalPages(total)
	h.Log.Debug("audit events listed",
		zap.String("category", filter.Category),
		zap.Int("page", pg),
		zap.Int64("total", total))

	respond.Success(w, map[string]any{
		"audit": page{
			Events:     events,
			Page:       pg,
			TotalPages: pages,
			Total:      total,
			HasPrev:    pg > 1,
			HasNext:    pg < pages,
		},
	})
}
