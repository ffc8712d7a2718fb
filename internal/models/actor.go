// Package models defines request payloads and supporting types for the
// rentdesk API.
package models

import "github.com/rentdesk/rentdesk/maintenance"

// Actor is the authenticated user behind an API call.
type Actor struct {
	UserID string           `json:"user_id"`
	Role   maintenance.Role `json:"role"`
}

// IsLandlord reports whether the actor acts for the property owner.
func (a Actor) IsLandlord() bool {
	return a.Role == maintenance.RoleLandlord
}
