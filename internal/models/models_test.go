package models_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rentdesk/rentdesk/internal/models"
	"github.com/rentdesk/rentdesk/maintenance"
)

func ptr[T any](v T) *T { return &v }

func assertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func assertValidationError(t *testing.T, err error, want string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}

	if !errors.Is(err, maintenance.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	if !strings.Contains(err.Error(), want) {
		t.Errorf("expected error containing %q, got %q", want, err.Error())
	}
}

func validCreate() models.CreateRequestInput {
	return models.CreateRequestInput{
		Title:       "Leaking tap",
		Description: "Kitchen tap drips",
		Priority:    maintenance.PriorityMedium,
		Category:    maintenance.CategoryPlumbing,
	}
}

func TestCreateRequestInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.CreateRequestInput)
		wantErr string
	}{
		{name: "valid", mutate: func(*models.CreateRequestInput) {}},
		{name: "missing title", mutate: func(in *models.CreateRequestInput) { in.Title = "  " }, wantErr: "title is required"},
		{name: "title too long", mutate: func(in *models.CreateRequestInput) { in.Title = strings.Repeat("x", 201) }, wantErr: "exceeds maximum length"},
		{name: "missing description", mutate: func(in *models.CreateRequestInput) { in.Description = "" }, wantErr: "description is required"},
		{name: "unknown priority", mutate: func(in *models.CreateRequestInput) { in.Priority = "urgent" }, wantErr: "priority"},
		{name: "missing priority", mutate: func(in *models.CreateRequestInput) { in.Priority = "" }, wantErr: "priority"},
		{name: "unknown category", mutate: func(in *models.CreateRequestInput) { in.Category = "roofing" }, wantErr: "category"},
		{name: "blank tag", mutate: func(in *models.CreateRequestInput) { in.Tags = []maintenance.Tag{{Name: " "}} }, wantErr: "tag name is required"},
		{name: "empty image", mutate: func(in *models.CreateRequestInput) { in.Images = []string{""} }, wantErr: "image uri is required"},
		{name: "negative cost", mutate: func(in *models.CreateRequestInput) { in.EstimatedCost = ptr(decimal.NewFromInt(-5)) }, wantErr: "must not be negative"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreate()
			tc.mutate(&in)

			err := in.Validate()
			if tc.wantErr != "" {
				assertValidationError(t, err, tc.wantErr)
				return
			}
			assertNoError(t, err)
		})
	}
}

func TestCreateRequestInput_Draft(t *testing.T) {
	in := validCreate()
	in.Title = "  Leaking tap  "
	in.Tags = []maintenance.Tag{{Name: "kitchen"}, {ID: "keep", Name: "urgent"}}

	r := in.Draft("p1")

	if r.Status != maintenance.StatusPending {
		t.Errorf("Status = %q, want pending", r.Status)
	}
	if r.PropertyID != "p1" {
		t.Errorf("PropertyID = %q", r.PropertyID)
	}
	if r.Title != "Leaking tap" {
		t.Errorf("Title = %q, want trimmed", r.Title)
	}
	if r.Tags[0].ID == "" {
		t.Error("tag without id was not assigned one")
	}
	if r.Tags[1].ID != "keep" {
		t.Errorf("existing tag id replaced: %q", r.Tags[1].ID)
	}
	if in.Tags[0].ID != "" {
		t.Error("input tags mutated")
	}
}

func TestPatchRequestInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      models.PatchRequestInput
		wantErr string
	}{
		{name: "title only", in: models.PatchRequestInput{Title: ptr("New title")}},
		{name: "cost only", in: models.PatchRequestInput{ActualCost: ptr(decimal.RequireFromString("120.50"))}},
		{name: "empty patch", in: models.PatchRequestInput{}, wantErr: "must change at least one field"},
		{name: "status rejected", in: models.PatchRequestInput{Status: ptr(maintenance.StatusCompleted)}, wantErr: "transition endpoint"},
		{name: "blank title", in: models.PatchRequestInput{Title: ptr("")}, wantErr: "title is required"},
		{name: "bad priority", in: models.PatchRequestInput{Priority: ptr(maintenance.Priority("urgent"))}, wantErr: "priority"},
		{name: "bad category", in: models.PatchRequestInput{Category: ptr(maintenance.Category("roofing"))}, wantErr: "category"},
		{name: "negative actual cost", in: models.PatchRequestInput{ActualCost: ptr(decimal.NewFromInt(-1))}, wantErr: "actual_cost"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.wantErr != "" {
				assertValidationError(t, err, tc.wantErr)
				return
			}
			assertNoError(t, err)
		})
	}
}

func TestPatchRequestInput_LandlordOnly(t *testing.T) {
	if (&models.PatchRequestInput{Title: ptr("x")}).LandlordOnly() {
		t.Error("title edit should not need landlord")
	}
	if !(&models.PatchRequestInput{AssignedTo: ptr("plumber-co")}).LandlordOnly() {
		t.Error("assignment should need landlord")
	}
}

func TestTransitionInput_Validate(t *testing.T) {
	assertNoError(t, (&models.TransitionInput{Status: maintenance.StatusInProgress}).Validate())
	assertValidationError(t, (&models.TransitionInput{}).Validate(), "status is required")
	assertValidationError(t, (&models.TransitionInput{Status: "archived"}).Validate(), "status must be one of")
}

func TestCreateNoteInput_Validate(t *testing.T) {
	assertNoError(t, (&models.CreateNoteInput{Content: "On my way"}).Validate())
	assertValidationError(t, (&models.CreateNoteInput{Content: "\n "}).Validate(), "content must not be empty")
}
