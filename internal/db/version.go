package db

import (
	"path"

	"github.com/rentdesk/rentdesk/internal/db/migrations"
)

// SchemaVersion returns the number of embedded SQL migrations, which equals
// the schema version the binary expects. Reported by the readiness probe.
func SchemaVersion() int {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return 0
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".sql" {
			count++
		}
	}

	return count
}
