// internal/domain/models/roles.go
package models

// Roles recognised by the application.
const (
	RoleHealthAssistant     = "health_assistant"
	RoleHospital            = "hospital"
	RoleMedicalStore        = "medical_store"
	RoleDistrictCoordinator = "district_coordinator"
	RoleAdmin               = "admin"
)

// User statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// AllRoles lists every valid role in display order.
var AllRoles = []string{
	RoleHealthAssistant,
	RoleHospital,
	RoleMedicalStore,
	RoleDistrictCoordinator,
	RoleAdmin,
}

// IsValidRole reports whether role is one of AllRoles.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether status is active or disabled.
func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusDisabled
}
