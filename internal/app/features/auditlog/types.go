// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/bonchi/carehub/internal/app/store/audit"
)

// listItem is one audit event with user ids resolved to names.
type listItem struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"event_type"`
	ActorName     string            `json:"actor,omitempty"`
	TargetName    string            `json:"user,omitempty"`
	IP            string            `json:"ip,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

// listData is the body of GET /audit.
type listData struct {
	Items      []listItem `json:"items"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Total      int64      `json:"total"`
	HasNext    bool       `json:"has_next"`
}

// categoryEvents lists the event types recorded in each category.
var categoryEvents = map[string][]string{
	audit.CategoryAuth: {
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLoginFailedRateLimit,
		audit.EventLogout,
	},
	audit.CategoryAdmin: {
		audit.EventCoordinatorSeeded,
		audit.EventCoordinatorUpdated,
		audit.EventCoordinatorDeleted,
		audit.EventAdminBootstrapped,
	},
	audit.CategoryUpload: {
		audit.EventUploadStored,
	},
}

// validFilter reports whether category and eventType name recorded events.
// Either may be empty.
func validFilter(category, eventType string) bool {
	if category != "" {
		events, ok := categoryEvents[category]
		if !ok {
			return false
		}
		if eventType == "" {
			return true
		}
		for _, e := range events {
			if e == eventType {
				return true
			}
		}
		return false
	}
	if eventType == "" {
		return true
	}
	for _, events := range categoryEvents {
		for _, e := range events {
			if e == eventType {
				return true
			}
		}
	}
	return false
}
