// internal/app/features/auditlog/types.go
package auditlog

import (
	"slices"

	"github.com/dalemusser/portfolio/internal/app/store/audit"
)

const pageSize = 50

// page is the JSON body of a list response.
type page struct {
	Events     []audit.Event `json:"events"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Total      int64         `json:"total"`
	HasPrev    bool          `json:"hasPrev"`
	HasNext    bool          `json:"hasNext"`
}

var categories = []string{audit.CategoryAuth, audit.CategoryAdmin}

var eventTypes = map[string][]string{
	audit.CategoryAuth: {
		audit.EventLoginSuccess,
		audit.EventLoginFailed,
		audit.EventLogout,
		audit.EventPasswordChanged,
		audit.EventPasswordChangeFail,
	},
	audit.CategoryAdmin: {
		audit.EventProfileUpdated,
		audit.EventSettingsUpdated,
		audit.EventAdminBootstrap,
	},
}

func validCategory(c string) bool {
	return slices.Contains(categories, c)
}

// validEventType accepts any known event type when category is empty.
func validEventType(category, eventType string) bool {
	if category != "" {
		return slices.Contains(eventTypes[category], eventType)
	}
	for _, types := range eventTypes {
		if slices.Contains(types, eventType) {
			return true
		}
	}
	return false
}

func totalPages(total int64) int {
	n := int((total + pageSize - 1) / pageSize)
	if n < 1 {
		n = 1
	}
	return n
}
