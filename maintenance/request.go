// Package maintenance holds the maintenance-request domain: the request and
// note types, the status lifecycle, the filter/sort/search engine, the
// calendar projection and dashboard statistics.
//
// Everything in this package is pure. Functions take an explicit request set
// and return new values; nothing here performs I/O or keeps shared state.
package maintenance

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a maintenance request.
type Status string

// Request statuses.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// Terminal reports whether no further transition is permitted out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Priority is the urgency of a request.
type Priority string

// Request priorities.
const (
	PriorityLow       Priority = "low"
	PriorityMedium    Priority = "medium"
	PriorityHigh      Priority = "high"
	PriorityEmergency Priority = "emergency"
)

// Priorities lists every priority from least to most severe.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityEmergency}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return slices.Contains(Priorities, p)
}

// Severity returns the rank of p (low=1 .. emergency=4), or 0 when unknown.
func (p Priority) Severity() int {
	return slices.Index(Priorities, p) + 1
}

// Category classifies the kind of work a request needs.
type Category string

// Request categories.
const (
	CategoryPlumbing    Category = "plumbing"
	CategoryElectrical  Category = "electrical"
	CategoryHVAC        Category = "hvac"
	CategoryStructural  Category = "structural"
	CategoryAppliance   Category = "appliance"
	CategoryPestControl Category = "pest_control"
	CategoryLandscaping Category = "landscaping"
	CategorySecurity    Category = "security"
	CategoryOther       Category = "other"
)

// Categories lists every category.
var Categories = []Category{
	CategoryPlumbing, CategoryElectrical, CategoryHVAC, CategoryStructural, CategoryAppliance,
	CategoryPestControl, CategoryLandscaping, CategorySecurity, CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Tag is a free-form label attached to a request.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Request is a maintenance request tied to a property and a tenant.
type Request struct {
	ID            string           `json:"id"`
	PropertyID    string           `json:"property_id"`
	TenantID      string           `json:"tenant_id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Status        Status           `json:"status"`
	Priority      Priority         `json:"priority"`
	Category      Category         `json:"category"`
	Tags          []Tag            `json:"tags"`
	Images        []string         `json:"images"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost,omitempty"`
	ActualCost    *decimal.Decimal `json:"actual_cost,omitempty"`
	AssignedTo    *string          `json:"assigned_to,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
}

// Clone returns a deep copy of r so callers can mutate the copy freely.
func (r Request) Clone() Request {
	r.Tags = slices.Clone(r.Tags)
	r.Images = slices.Clone(r.Images)

	if r.EstimatedCost != nil {
		v := *r.EstimatedCost
		r.EstimatedCost = &v
	}

	if r.ActualCost != nil {
		v := *r.ActualCost
		r.ActualCost = &v
	}

	if r.AssignedTo != nil {
		v := *r.AssignedTo
		r.AssignedTo = &v
	}

	if r.CompletedAt != nil {
		v := *r.CompletedAt
		r.CompletedAt = &v
	}

	return r
}

// Patch carries a partial update for a request. Nil fields are left untouched.
// Status and CompletedAt are only ever set by the lifecycle engine.
type Patch struct {
	Title         *string
	Description   *string
	Status        *Status
	Priority      *Priority
	Category      *Category
	Tags          *[]Tag
	Images        *[]string
	EstimatedCost *decimal.Decimal
	ActualCost    *decimal.Decimal
	AssignedTo    *string
	CompletedAt   *time.Time
}

// Empty reports whether p changes nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// ApplyTo merges p into a copy of r and stamps UpdatedAt with now.
func (p Patch) ApplyTo(r Request, now time.Time) Request {
	out := r.Clone()

	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Tags != nil {
		out.Tags = slices.Clone(*p.Tags)
	}
	if p.Images != nil {
		out.Images = slices.Clone(*p.Images)
	}
	if p.EstimatedCost != nil {
		v := *p.EstimatedCost
		out.EstimatedCost = &v
	}
	if p.ActualCost != nil {
		v := *p.ActualCost
		out.ActualCost = &v
	}
	if p.AssignedTo != nil {
		v := *p.AssignedTo
		out.AssignedTo = &v
	}
	if p.CompletedAt != nil && out.CompletedAt == nil {
		v := *p.CompletedAt
		out.CompletedAt = &v
	}

	out.UpdatedAt = now

	return out
}
