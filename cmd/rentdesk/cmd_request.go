package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rentdesk/rentdesk/client"
	"github.com/rentdesk/rentdesk/maintenance"
)

func newRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "request",
		Aliases: []string{"req"},
		Short:   "Manage maintenance requests",
	}
	cmd.AddCommand(requestListCmd())
	cmd.AddCommand(requestGetCmd())
	cmd.AddCommand(requestCreateCmd())
	cmd.AddCommand(requestUpdateCmd())
	cmd.AddCommand(requestTransitionCmd())
	cmd.AddCommand(requestDeleteCmd())
	return cmd
}

func requestListCmd() *cobra.Command {
	var status, priority, category, dateRange, search, sortBy string
	cmd := &cobra.Command{
		Use:   "list <property-id>",
		Short: "List a property's requests",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			q := maintenance.Query{
				Status:    maintenance.Status(status),
				Priority:  maintenance.Priority(priority),
				Category:  maintenance.Category(category),
				DateRange: maintenance.DateRange(dateRange),
				Search:    search,
				SortBy:    maintenance.SortKey(sortBy),
			}
			reqs, err := apiClient.Requests.List(context.Background(), args[0], q)
			if err != nil {
				fatal("list requests", err)
			}
			printRequests(reqs)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&priority, "priority", "", "Filter by priority")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&dateRange, "date-range", "", "today|this_week|this_month|this_year|last7days|last30days")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text search")
	cmd.Flags().StringVar(&sortBy, "sort", "", "createdAt|priority|status|category|severity")
	return cmd
}

func requestGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a request by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req, err := apiClient.Requests.Get(context.Background(), args[0])
			if err != nil {
				fatal("get request", err)
			}
			output(req, req.ID)
		},
	}
}

func requestCreateCmd() *cobra.Command {
	var (
		in         client.CreateRequest
		priority   string
		category   string
		tags       []string
		estimate   string
		assignedTo string
	)
	cmd := &cobra.Command{
		Use:   "create <property-id> <title>",
		Short: "File a maintenance request",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			in.Title = args[1]
			in.Priority = maintenance.Priority(priority)
			in.Category = maintenance.Category(category)
			for _, name := range tags {
				in.Tags = append(in.Tags, maintenance.Tag{Name: name})
			}
			cost, err := parseCost(estimate)
			if err != nil {
				fatal("parse --estimate", err)
			}
			in.EstimatedCost = cost
			if assignedTo != "" {
				in.AssignedTo = &assignedTo
			}

			req, err := apiClient.Requests.Create(context.Background(), args[0], &in)
			if err != nil {
				fatal("create request", err)
			}
			output(req, req.ID)
		},
	}
	cmd.Flags().StringVar(&in.Description, "description", "", "What is wrong (required)")
	cmd.Flags().StringVar(&priority, "priority", string(maintenance.PriorityMedium), "low|medium|high|emergency")
	cmd.Flags().StringVar(&category, "category", string(maintenance.CategoryOther), "Request category")
	cmd.Flags().StringVar(&in.TenantID, "tenant", "", "Tenant user ID (landlords filing on behalf)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag name (repeatable)")
	cmd.Flags().StringSliceVar(&in.Images, "image", nil, "Image URI (repeatable)")
	cmd.Flags().StringVar(&estimate, "estimate", "", "Estimated cost (landlord only)")
	cmd.Flags().StringVar(&assignedTo, "assign", "", "Assignee (landlord only)")
	return cmd
}

func requestUpdateCmd() *cobra.Command {
	var title, description, priority, category, estimate, actual, assignedTo, tagsJSON string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a request's fields",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			in, err := buildPatch(cmd, title, description, priority, category, estimate, actual, assignedTo, tagsJSON)
			if err != nil {
				fatal("build update", err)
			}
			req, err := apiClient.Requests.Patch(context.Background(), args[0], in)
			if err != nil {
				fatal("update request", err)
			}
			output(req, req.ID)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVar(&estimate, "estimate", "", "Estimated cost (landlord only)")
	cmd.Flags().StringVar(&actual, "actual", "", "Actual cost (landlord only)")
	cmd.Flags().StringVar(&assignedTo, "assign", "", "Assignee (landlord only)")
	cmd.Flags().StringVar(&tagsJSON, "tags", "", `Replacement tags as JSON, e.g. '[{"name":"kitchen"}]'`)
	return cmd
}

// buildPatch turns the flags the user actually set into a PatchRequest.
func buildPatch(cmd *cobra.Command, title, description, priority, category, estimate, actual, assignedTo, tagsJSON string) (*client.PatchRequest, error) {
	in := &client.PatchRequest{}
	changed := cmd.Flags().Changed

	if changed("title") {
		in.Title = &title
	}
	if changed("description") {
		in.Description = &description
	}
	if changed("priority") {
		p := maintenance.Priority(priority)
		in.Priority = &p
	}
	if changed("category") {
		c := maintenance.Category(category)
		in.Category = &c
	}
	if changed("assign") {
		in.AssignedTo = &assignedTo
	}
	if changed("tags") {
		var tags []maintenance.Tag
		if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
			return nil, fmt.Errorf("--tags: %w", err)
		}
		in.Tags = &tags
	}

	var err error
	if in.EstimatedCost, err = parseCost(estimate); err != nil {
		return nil, fmt.Errorf("--estimate: %w", err)
	}
	if in.ActualCost, err = parseCost(actual); err != nil {
		return nil, fmt.Errorf("--actual: %w", err)
	}
	return in, nil
}

func parseCost(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func requestTransitionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "transition <id> <status>",
		Short:     "Move a request to another status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"in_progress", "completed", "cancelled"},
		Run: func(cmd *cobra.Command, args []string) {
			to := maintenance.Status(args[1])
			if !to.Valid() {
				fatal("transition", fmt.Errorf("unknown status %q", args[1]))
			}
			req, err := apiClient.Requests.Transition(context.Background(), args[0], to)
			if err != nil {
				fatal("transition request", err)
			}
			output(req, string(req.Status))
		},
	}
}

func requestDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a request and its notes (landlord only)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Requests.Delete(context.Background(), args[0]); err != nil {
				fatal("delete request", err)
			}
			fmt.Println("deleted")
		},
	}
}
