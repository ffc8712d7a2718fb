package memstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/rentdesk/rentdesk/internal/models"
)

// GetActorByAPIKey looks up the user holding apiKey.
func (s *Store) GetActorByAPIKey(_ context.Context, apiKey string) (models.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	actor, ok := s.state.Users[hashAPIKey(apiKey)]
	if !ok {
		return models.Actor{}, models.ErrUnknownAPIKey
	}

	return actor, nil
}

// UpsertUser registers actor under apiKey, replacing any key they held before.
func (s *Store) UpsertUser(_ context.Context, actor models.Actor, _ string, apiKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := make(map[string]models.Actor, len(s.state.Users))
	for k, v := range s.state.Users {
		prev[k] = v
		if v.UserID == actor.UserID {
			delete(s.state.Users, k)
		}
	}

	s.state.Users[hashAPIKey(apiKey)] = actor

	if err := s.commit(); err != nil {
		s.state.Users = prev

		return err
	}

	return nil
}

func hashAPIKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(hash[:])
}
