package config

import (
	"fmt"
	"strings"

	"github.com/rentdesk/rentdesk/maintenance"
)

// minAPIKeyLength rejects trivially guessable bootstrap keys.
const minAPIKeyLength = 16

// BootstrapUser is a user the server registers at startup.
type BootstrapUser struct {
	UserID string
	Role   maintenance.Role
	APIKey Secret
}

// parseBootstrapUsers parses BOOTSTRAP_USERS, a ';'-separated list of
// user_id:role:api_key entries.
func parseBootstrapUsers(raw string) ([]BootstrapUser, error) {
	var users []BootstrapUser
	seen := make(map[string]bool)

	for i, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("BOOTSTRAP_USERS entry %d must be user_id:role:api_key", i+1)
		}

		u := BootstrapUser{
			UserID: strings.TrimSpace(parts[0]),
			Role:   maintenance.Role(strings.TrimSpace(parts[1])),
			APIKey: Secret(strings.TrimSpace(parts[2])),
		}

		switch {
		case u.UserID == "":
			return nil, fmt.Errorf("BOOTSTRAP_USERS entry %d has an empty user id", i+1)
		case !u.Role.Valid():
			return nil, fmt.Errorf("BOOTSTRAP_USERS entry %d: role must be tenant or landlord", i+1)
		case len(u.APIKey.Value()) < minAPIKeyLength:
			return nil, fmt.Errorf("BOOTSTRAP_USERS entry %d: api key must be at least %d characters", i+1, minAPIKeyLength)
		case seen[u.UserID]:
			return nil, fmt.Errorf("BOOTSTRAP_USERS lists user %q twice", u.UserID)
		}

		seen[u.UserID] = true
		users = append(users, u)
	}

	return users, nil
}
