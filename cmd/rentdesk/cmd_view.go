package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rentdesk/rentdesk/maintenance"
)

func newCalendarCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar <property-id>",
		Short: "Show requests on a month grid",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			m, err := parseMonth(month)
			if err != nil {
				fatal("parse --month", err)
			}
			cal, err := apiClient.Views.Calendar(context.Background(), args[0], m)
			if err != nil {
				fatal("calendar", err)
			}
			if flagFmt == "table" {
				fmt.Print(renderCalendar(cal))
				return
			}
			output(cal, cal.Month)
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month as YYYY-MM (default: current month on the server)")
	return cmd
}

// parseMonth accepts YYYY-MM; empty means the server's current month.
func parseMonth(s string) (maintenance.Month, error) {
	if s == "" {
		return maintenance.Month{}, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return maintenance.Month{}, fmt.Errorf("want YYYY-MM, got %q", s)
	}
	return maintenance.Month{Year: t.Year(), Month: t.Month()}, nil
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <property-id>...",
		Short: "Dashboard counters over one or more properties",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			stats, err := apiClient.Views.Stats(context.Background(), args...)
			if err != nil {
				fatal("stats", err)
			}
			if flagFmt == "table" {
				formatTable([]string{"METRIC", "VALUE"}, [][]string{
					{"total", strconv.Itoa(stats.TotalRequests)},
					{"pending", strconv.Itoa(stats.PendingRequests)},
					{"in progress", strconv.Itoa(stats.InProgressRequests)},
					{"completed", strconv.Itoa(stats.CompletedRequests)},
					{"high priority", strconv.Itoa(stats.HighPriorityRequests)},
					{"avg resolution (h)", strconv.Itoa(stats.AverageResolutionTime)},
				})
				return
			}
			output(stats, strconv.Itoa(stats.TotalRequests))
		},
	}
}
