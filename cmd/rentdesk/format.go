package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rentdesk/rentdesk/client"
	"github.com/rentdesk/rentdesk/maintenance"
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

// output prints v as JSON, or only quietVal under --format quiet.
func output(v any, quietVal string) {
	if flagFmt == "quiet" {
		fmt.Println(quietVal)
		return
	}
	formatJSON(v)
}

func printRequests(reqs []maintenance.Request) {
	switch flagFmt {
	case "table":
		rows := make([][]string, 0, len(reqs))
		for _, r := range reqs {
			rows = append(rows, []string{r.ID, string(r.Status), string(r.Priority), string(r.Category), r.CreatedAt.Format("2006-01-02"), r.Title})
		}
		formatTable([]string{"ID", "STATUS", "PRIORITY", "CATEGORY", "CREATED", "TITLE"}, rows)
	case "quiet":
		for _, r := range reqs {
			fmt.Println(r.ID)
		}
	default:
		formatJSON(reqs)
	}
}

// renderCalendar draws the grid one week per line, Sunday first. Each day
// shows its number and, when non-zero, the request count in brackets.
func renderCalendar(cal *client.Calendar) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s   (prev %s, next %s)\n", cal.Month, cal.Previous, cal.Next)
	b.WriteString(" Sun    Mon    Tue    Wed    Thu    Fri    Sat\n")

	for week := 0; week < maintenance.GridCells/7; week++ {
		cells := make([]string, 7)
		for d := range 7 {
			cell := cal.Cells[week*7+d]
			switch {
			case cell.Blank():
				cells[d] = "     "
			case len(cell.Requests) > 0:
				cells[d] = fmt.Sprintf("%2d[%d]", cell.Day, len(cell.Requests))
			default:
				cells[d] = fmt.Sprintf("%2d   ", cell.Day)
			}
		}
		line := strings.TrimRight(" "+strings.Join(cells, "  "), " ")
		if line == "" {
			continue
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
