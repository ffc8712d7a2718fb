package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"time"
)

// sanitizeURL strips the password from a database URL for display.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func printReport(w io.Writer, r *report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "rentdesk snapshot migration")
	fmt.Fprintf(w, "  source:   %s\n", r.Source)
	if !r.DryRun {
		fmt.Fprintf(w, "  target:   %s\n", r.Target)
	}
	fmt.Fprintf(w, "  duration: %s\n\n", r.Duration.Round(time.Millisecond))

	fmt.Fprintf(w, "  %-10s %6s %9s %9s\n", "table", "read", "inserted", "verified")
	rows := []struct {
		name                     string
		read, inserted, verified int
	}{
		{"users", r.Read.Users, r.Inserted.Users, r.Verified.Users},
		{"requests", r.Read.Requests, r.Inserted.Requests, r.Verified.Requests},
		{"notes", r.Read.Notes, r.Inserted.Notes, r.Verified.Notes},
		{"audit", r.Read.Audit, r.Inserted.Audit, r.Verified.Audit},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-10s %6d %9d %9d\n", row.name, row.read, row.inserted, row.verified)
	}

	if len(r.Orphans) > 0 {
		fmt.Fprintf(w, "\n  skipped %d notes whose request is missing: %v\n", len(r.Orphans), r.Orphans)
	}
	if r.DryRun {
		fmt.Fprintln(w, "\n  dry run: nothing was written")
	}
	if r.Err != nil {
		fmt.Fprintf(w, "\n  FAILED: %v\n", r.Err)
	}
}
