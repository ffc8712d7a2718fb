package client

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rentdesk/rentdesk/maintenance"
)

// CreateRequest is the payload for filing a maintenance request.
// EstimatedCost and AssignedTo are accepted from landlords only.
type CreateRequest struct {
	TenantID      string               `json:"tenant_id,omitempty"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Priority      maintenance.Priority `json:"priority"`
	Category      maintenance.Category `json:"category"`
	Tags          []maintenance.Tag    `json:"tags,omitempty"`
	Images        []string             `json:"images,omitempty"`
	EstimatedCost *decimal.Decimal     `json:"estimated_cost,omitempty"`
	AssignedTo    *string              `json:"assigned_to,omitempty"`
}

// PatchRequest is the payload for editing a request. Nil fields are left untouched.
type PatchRequest struct {
	Title         *string               `json:"title,omitempty"`
	Description   *string               `json:"description,omitempty"`
	Priority      *maintenance.Priority `json:"priority,omitempty"`
	Category      *maintenance.Category `json:"category,omitempty"`
	Tags          *[]maintenance.Tag    `json:"tags,omitempty"`
	Images        *[]string             `json:"images,omitempty"`
	EstimatedCost *decimal.Decimal      `json:"estimated_cost,omitempty"`
	ActualCost    *decimal.Decimal      `json:"actual_cost,omitempty"`
	AssignedTo    *string               `json:"assigned_to,omitempty"`
}

// domainPatch mirrors p as a maintenance.Patch for local application.
func (p *PatchRequest) domainPatch() maintenance.Patch {
	return maintenance.Patch{
		Title:         p.Title,
		Description:   p.Description,
		Priority:      p.Priority,
		Category:      p.Category,
		Tags:          p.Tags,
		Images:        p.Images,
		EstimatedCost: p.EstimatedCost,
		ActualCost:    p.ActualCost,
		AssignedTo:    p.AssignedTo,
	}
}

// Calendar is a month grid as served by the calendar endpoint.
type Calendar struct {
	Month    string                                     `json:"month"`
	Previous string                                     `json:"previous"`
	Next     string                                     `json:"next"`
	Cells    [maintenance.GridCells]maintenance.DayCell `json:"cells"`
}

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID         int64          `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Actor      string         `json:"actor,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditQueryOptions holds parameters for querying audit logs.
type AuditQueryOptions struct {
	EntityType string
	EntityID   string
	Action     string
	Since      *time.Time
	Limit      int
	Offset     int
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	SchemaVersion int     `json:"schema_version"`
	Store         string  `json:"store"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
