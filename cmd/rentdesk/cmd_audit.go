package main

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rentdesk/rentdesk/client"
)

func newAuditCmd() *cobra.Command {
	var entityID, action, since string
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query the audit log (landlord only)",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.AuditQueryOptions{
				EntityType: "request",
				EntityID:   entityID,
				Action:     action,
				Limit:      limit,
			}
			if since != "" {
				d, err := time.ParseDuration(since)
				if err != nil {
					fatal("parse --since", err)
				}
				t := time.Now().Add(-d)
				opts.Since = &t
			}
			entries, _, err := apiClient.Audit.Query(context.Background(), opts)
			if err != nil {
				fatal("audit query", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "ACTION", "ENTITY_ID", "ACTOR", "CREATED_AT"}
				var rows [][]string
				for _, e := range entries {
					rows = append(rows, []string{strconv.FormatInt(e.ID, 10), e.Action, e.EntityID, e.Actor, e.CreatedAt.Format("2006-01-02 15:04:05")})
				}
				formatTable(headers, rows)
				return
			}
			output(entries, "")
		},
	}
	cmd.Flags().StringVar(&entityID, "request", "", "Filter by request ID")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action, e.g. request.transition")
	cmd.Flags().StringVar(&since, "since", "", "Only entries newer than this duration, e.g. 72h")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")

	cmd.AddCommand(auditPurgeCmd())
	return cmd
}

func auditPurgeCmd() *cobra.Command {
	var retentionDays int
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Purge old audit entries",
		Run: func(cmd *cobra.Command, args []string) {
			deleted, err := apiClient.Audit.Purge(context.Background(), retentionDays)
			if err != nil {
				fatal("audit purge", err)
			}
			output(map[string]int{"deleted": deleted}, strconv.Itoa(deleted))
		},
	}
	cmd.Flags().IntVar(&retentionDays, "retention-days", 90, "Delete entries older than N days")
	return cmd
}
