package models

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentdesk/rentdesk/maintenance"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
	maxTags              = 20
	maxImages            = 10
	maxImageURILength    = 2048
)

// CreateRequestInput is the payload for filing a new maintenance request.
type CreateRequestInput struct {
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

// Validate checks required fields and enumerations.
func (in *CreateRequestInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrRequired("title")
	}

	if len(in.Title) > maxTitleLength {
		return ErrFieldTooLong("title", maxTitleLength)
	}

	if strings.TrimSpace(in.Description) == "" {
		return ErrRequired("description")
	}

	if len(in.Description) > maxDescriptionLength {
		return ErrFieldTooLong("description", maxDescriptionLength)
	}

	if !in.Priority.Valid() {
		return maintenance.Invalid("priority", "must be one of low, medium, high, emergency")
	}

	if !in.Category.Valid() {
		return maintenance.Invalid("category", "is not a known category")
	}

	if err := validateTags(in.Tags); err != nil {
		return err
	}

	if err := validateImages(in.Images); err != nil {
		return err
	}

	return validateCost("estimated_cost", in.EstimatedCost)
}

// Draft builds the request the store will persist. The store assigns id,
// status and timestamps.
func (in *CreateRequestInput) Draft(propertyID string) maintenance.Request {
	return maintenance.Request{
		PropertyID:    propertyID,
		TenantID:      in.TenantID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Status:        maintenance.StatusPending,
		Priority:      in.Priority,
		Category:      in.Category,
		Tags:          withTagIDs(in.Tags),
		Images:        in.Images,
		EstimatedCost: in.EstimatedCost,
		AssignedTo:    in.AssignedTo,
	}
}

// LandlordOnly reports whether the payload sets fields only a landlord may set.
func (in *CreateRequestInput) LandlordOnly() bool {
	return in.EstimatedCost != nil || in.AssignedTo != nil
}

// PatchRequestInput is the payload for editing a request. Absent fields are
// left untouched. Status changes go through TransitionInput instead.
type PatchRequestInput struct {
	Title         *string               `json:"title,omitempty"`
	Description   *string               `json:"description,omitempty"`
	Status        *maintenance.Status   `json:"status,omitempty"`
	Priority      *maintenance.Priority `json:"priority,omitempty"`
	Category      *maintenance.Category `json:"category,omitempty"`
	Tags          *[]maintenance.Tag    `json:"tags,omitempty"`
	Images        *[]string             `json:"images,omitempty"`
	EstimatedCost *decimal.Decimal      `json:"estimated_cost,omitempty"`
	ActualCost    *decimal.Decimal      `json:"actual_cost,omitempty"`
	AssignedTo    *string               `json:"assigned_to,omitempty"`
}

// Validate checks the fields that are present.
func (in *PatchRequestInput) Validate() error {
	if in.Status != nil {
		return maintenance.Invalid("status", "must be changed through the transition endpoint")
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return ErrRequired("title")
		}

		if len(*in.Title) > maxTitleLength {
			return ErrFieldTooLong("title", maxTitleLength)
		}
	}

	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return ErrRequired("description")
		}

		if len(*in.Description) > maxDescriptionLength {
			return ErrFieldTooLong("description", maxDescriptionLength)
		}
	}

	if in.Priority != nil && !in.Priority.Valid() {
		return maintenance.Invalid("priority", "must be one of low, medium, high, emergency")
	}

	if in.Category != nil && !in.Category.Valid() {
		return maintenance.Invalid("category", "is not a known category")
	}

	if in.Tags != nil {
		if err := validateTags(*in.Tags); err != nil {
			return err
		}
	}

	if in.Images != nil {
		if err := validateImages(*in.Images); err != nil {
			return err
		}
	}

	if err := validateCost("estimated_cost", in.EstimatedCost); err != nil {
		return err
	}

	if err := validateCost("actual_cost", in.ActualCost); err != nil {
		return err
	}

	if in.ToPatch().Empty() {
		return maintenance.Invalid("body", "must change at least one field")
	}

	return nil
}

// ToPatch converts the payload into a domain patch.
func (in *PatchRequestInput) ToPatch() maintenance.Patch {
	p := maintenance.Patch{
		Title:         in.Title,
		Description:   in.Description,
		Priority:      in.Priority,
		Category:      in.Category,
		Tags:          in.Tags,
		Images:        in.Images,
		EstimatedCost: in.EstimatedCost,
		ActualCost:    in.ActualCost,
		AssignedTo:    in.AssignedTo,
	}

	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		p.Title = &t
	}

	if p.Tags != nil {
		tags := withTagIDs(*p.Tags)
		p.Tags = &tags
	}

	return p
}

// LandlordOnly reports whether the payload sets fields only a landlord may set.
func (in *PatchRequestInput) LandlordOnly() bool {
	return in.EstimatedCost != nil || in.ActualCost != nil || in.AssignedTo != nil
}

// TransitionInput is the payload for a status change.
type TransitionInput struct {
	Status maintenance.Status `json:"status"`
}

// Validate checks the target status is known.
func (in *TransitionInput) Validate() error {
	if in.Status == "" {
		return ErrRequired("status")
	}

	if !in.Status.Valid() {
		return maintenance.Invalid("status", "must be one of pending, in_progress, completed, cancelled")
	}

	return nil
}

// CreateNoteInput is the payload for adding a note to a request.
type CreateNoteInput struct {
	Content string `json:"content"`
}

// Validate rejects empty content.
func (in *CreateNoteInput) Validate() error {
	return maintenance.ValidateNoteContent(in.Content)
}

// withTagIDs gives every tag without an id a fresh one.
func withTagIDs(tags []maintenance.Tag) []maintenance.Tag {
	out := slices.Clone(tags)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.New().String()
		}
	}

	return out
}

func validateTags(tags []maintenance.Tag) error {
	if len(tags) > maxTags {
		return maintenance.Invalid("tags", "too many tags")
	}

	for _, t := range tags {
		if strings.TrimSpace(t.Name) == "" {
			return maintenance.Invalid("tags", "tag name is required")
		}

		if len(t.Name) > 50 {
			return ErrFieldTooLong("tags.name", 50)
		}
	}

	return nil
}

func validateImages(images []string) error {
	if len(images) > maxImages {
		return maintenance.Invalid("images", "too many images")
	}

	for _, uri := range images {
		if uri == "" {
			return maintenance.Invalid("images", "image uri is required")
		}

		if len(uri) > maxImageURILength {
			return ErrFieldTooLong("images", maxImageURILength)
		}
	}

	return nil
}

func validateCost(field string, cost *decimal.Decimal) error {
	if cost != nil && cost.IsNegative() {
		return maintenance.Invalid(field, "must not be negative")
	}

	return nil
}
