package entities

import "time"

// Announcement is one commission-formatted post to an approved public
// channel.
type Announcement struct {
	AnnouncementID string
	Channel        string
	Title          string
	Body           string
	PostedBy       string
	PostedAt       time.Time
}

// AuditEntry records official and blocked election activity for the public
// record. CaseRef is set for blocked activity so the actor can be pointed at
// a traceable reference.
type AuditEntry struct {
	EntryID    string
	Kind       string
	ActorID    string
	Detail     string
	CaseRef    string
	OccurredAt time.Time
}

const (
	AuditKindAnnouncementPosted  = "announcement_posted"
	AuditKindAnnouncementBlocked = "announcement_blocked"
	AuditKindUnauthorizedAttempt = "unauthorized_attempt"
)
