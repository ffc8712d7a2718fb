package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rentdesk/rentdesk/internal/models"
)

// UserStore handles user lookups (API key → actor).
type UserStore struct {
	Base
}

// NewUserStore creates a new UserStore.
func NewUserStore(base Base) *UserStore {
	return &UserStore{Base: base}
}

// HashAPIKey returns the hex SHA-256 digest stored in place of an API key.
func HashAPIKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(hash[:])
}

// GetActorByAPIKey looks up the user holding apiKey.
func (s *UserStore) GetActorByAPIKey(ctx context.Context, apiKey string) (models.Actor, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var actor models.Actor

	err := s.Pool.QueryRow(ctx,
		"SELECT id, role FROM users WHERE api_key_hash = $1", HashAPIKey(apiKey),
	).Scan(&actor.UserID, &actor.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Actor{}, models.ErrUnknownAPIKey
		}

		return models.Actor{}, fmt.Errorf("looking up user by API key: %w", err)
	}

	return actor, nil
}

// UpsertUser creates or updates a user and the API key they authenticate with.
func (s *UserStore) UpsertUser(ctx context.Context, actor models.Actor, name, apiKey string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx,
		`INSERT INTO users (id, name, role, api_key_hash) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role,
			api_key_hash = EXCLUDED.api_key_hash`,
		actor.UserID, name, actor.Role, HashAPIKey(apiKey),
	)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}

	return nil
}
