package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"madison/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "madison/contexts/identity-access/authorization-service/domain/errors"
	"madison/contexts/identity-access/authorization-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu     sync.RWMutex
	grants map[string]entities.Grant
}

func NewStore() *Store {
	return &Store{grants: make(map[string]entities.Grant)}
}

func (s *Store) InsertGrant(_ context.Context, grant entities.Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.grants {
		if existing.ActorID == grant.ActorID && existing.Capability == grant.Capability && existing.Active() {
			return domainerrors.ErrDuplicateGrant
		}
	}
	s.grants[grant.GrantID] = grant
	return nil
}

func (s *Store) RevokeGrant(_ context.Context, actorID string, capability entities.Capability, revokedBy string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, grant := range s.grants {
		if grant.ActorID == actorID && grant.Capability == capability && grant.Active() {
			revokedAt := at
			grant.RevokedAt = &revokedAt
			grant.RevokedBy = revokedBy
			s.grants[id] = grant
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListGrants(_ context.Context, actorID string) ([]entities.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Grant, 0)
	for _, grant := range s.grants {
		if grant.ActorID == actorID {
			items = append(items, grant)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].GrantedAt.Before(items[j].GrantedAt)
	})
	return items, nil
}

func (s *Store) HasCapability(_ context.Context, actorID string, capability entities.Capability) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, grant := range s.grants {
		if grant.ActorID == actorID && grant.Capability == capability && grant.Active() {
			return true, nil
		}
	}
	return false, nil
}

// Seed installs an active grant directly, for tests and local bootstrap.
func (s *Store) Seed(actorID string, capabilities ...entities.Capability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, capability := range capabilities {
		grantID := uuid.NewString()
		s.grants[grantID] = entities.Grant{
			GrantID:    grantID,
			ActorID:    actorID,
			Capability: capability,
			GrantedBy:  "seed",
			GrantedAt:  time.Now().UTC(),
		}
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.GrantRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
