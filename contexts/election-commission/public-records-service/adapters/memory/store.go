package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"madison/contexts/election-commission/public-records-service/domain/entities"
	"madison/contexts/election-commission/public-records-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu            sync.RWMutex
	announcements []entities.Announcement
	audit         []entities.AuditEntry
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) InsertAnnouncement(_ context.Context, announcement entities.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announcements = append(s.announcements, announcement)
	return nil
}

func (s *Store) ListAnnouncements(_ context.Context, channel string) ([]entities.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channel = strings.ToLower(strings.TrimSpace(channel))
	items := make([]entities.Announcement, 0)
	for _, announcement := range s.announcements {
		if channel == "" || announcement.Channel == channel {
			items = append(items, announcement)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PostedAt.Before(items[j].PostedAt)
	})
	return items, nil
}

func (s *Store) AppendAudit(_ context.Context, entry entities.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, entry)
	return nil
}

// AuditEntries returns a copy of the audit trail, for tests.
func (s *Store) AuditEntries() []entities.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.AuditEntry(nil), s.audit...)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.AnnouncementRepository = (*Store)(nil)
var _ ports.AuditSink = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
