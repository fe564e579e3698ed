package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"madison/contexts/election-commission/public-records-service/domain/entities"
	domainerrors "madison/contexts/election-commission/public-records-service/domain/errors"
	"madison/contexts/election-commission/public-records-service/domain/services"
	"madison/contexts/election-commission/public-records-service/ports"
)

// DefaultApprovedChannels mirrors the commission's public posting surface.
func DefaultApprovedChannels() map[string]struct{} {
	return map[string]struct{}{
		"fec-announcements":  {},
		"election-results":   {},
		"fec-public-records": {},
	}
}

type PublishAnnouncementCommand struct {
	ActorID string
	Channel string
	Title   string
	Body    string
}

type PublishResult struct {
	Announcement entities.Announcement
	// Rendered is the channel-ready content including the header line.
	Rendered string
}

// AnnounceUseCase posts commission-formatted announcements to approved
// channels and records both posted and blocked attempts in the audit trail.
type AnnounceUseCase struct {
	Announcements    ports.AnnouncementRepository
	Audit            ports.AuditSink
	Clock            ports.Clock
	IDGen            ports.IDGenerator
	ApprovedChannels map[string]struct{}
	Logger           *slog.Logger
}

func (uc AnnounceUseCase) Publish(ctx context.Context, cmd PublishAnnouncementCommand) (PublishResult, error) {
	logger := uc.logger()
	channel := strings.ToLower(strings.TrimSpace(cmd.Channel))
	title := strings.TrimSpace(cmd.Title)
	body := strings.TrimSpace(cmd.Body)
	actorID := strings.TrimSpace(cmd.ActorID)

	if channel == "" || title == "" || body == "" || actorID == "" {
		return PublishResult{}, domainerrors.ErrInvalidAnnouncement
	}

	approved := uc.ApprovedChannels
	if len(approved) == 0 {
		approved = DefaultApprovedChannels()
	}
	now := uc.now()

	if _, ok := approved[channel]; !ok {
		caseRef := services.NewCaseReference(now)
		uc.appendAudit(ctx, entities.AuditEntry{
			Kind:       entities.AuditKindAnnouncementBlocked,
			ActorID:    actorID,
			Detail:     "channel " + channel + " not approved, title: " + title,
			CaseRef:    caseRef,
			OccurredAt: now,
		})
		logger.Warn("announcement channel blocked",
			"event", "records_announce_channel_blocked",
			"module", "election-commission/public-records-service",
			"layer", "application",
			"actor_id", actorID,
			"channel", channel,
			"case_ref", caseRef,
		)
		return PublishResult{}, domainerrors.ErrChannelNotApproved
	}

	announcementID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return PublishResult{}, err
	}
	announcement := entities.Announcement{
		AnnouncementID: announcementID,
		Channel:        channel,
		Title:          title,
		Body:           body,
		PostedBy:       actorID,
		PostedAt:       now,
	}
	if err := uc.Announcements.InsertAnnouncement(ctx, announcement); err != nil {
		return PublishResult{}, err
	}
	uc.appendAudit(ctx, entities.AuditEntry{
		Kind:       entities.AuditKindAnnouncementPosted,
		ActorID:    actorID,
		Detail:     "channel " + channel + ", title: " + title,
		OccurredAt: now,
	})

	logger.Info("announcement posted",
		"event", "records_announcement_posted",
		"module", "election-commission/public-records-service",
		"layer", "application",
		"actor_id", actorID,
		"channel", channel,
		"announcement_id", announcement.AnnouncementID,
	)
	return PublishResult{
		Announcement: announcement,
		Rendered:     services.FormatHeader(title) + "\n\n" + body,
	}, nil
}

// RecordUnauthorizedAttempt logs a rejected command attempt and returns the
// case reference for the notice shown to the actor. Audit failures never
// block the caller.
func (uc AnnounceUseCase) RecordUnauthorizedAttempt(ctx context.Context, actorID string, detail string) string {
	now := uc.now()
	caseRef := services.NewCaseReference(now)
	uc.appendAudit(ctx, entities.AuditEntry{
		Kind:       entities.AuditKindUnauthorizedAttempt,
		ActorID:    strings.TrimSpace(actorID),
		Detail:     strings.TrimSpace(detail),
		CaseRef:    caseRef,
		OccurredAt: now,
	})
	return caseRef
}

func (uc AnnounceUseCase) appendAudit(ctx context.Context, entry entities.AuditEntry) {
	if uc.Audit == nil {
		return
	}
	if entry.EntryID == "" {
		if id, err := uc.IDGen.NewID(ctx); err == nil {
			entry.EntryID = id
		}
	}
	if err := uc.Audit.AppendAudit(ctx, entry); err != nil {
		uc.logger().Error("audit append failed",
			"event", "records_audit_append_failed",
			"module", "election-commission/public-records-service",
			"layer", "application",
			"kind", entry.Kind,
			"error", err.Error(),
		)
	}
}

func (uc AnnounceUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc AnnounceUseCase) logger() *slog.Logger {
	if uc.Logger == nil {
		return slog.Default()
	}
	return uc.Logger
}
