package postgres

import (
	"time"

	"madison/contexts/election-commission/public-records-service/domain/entities"
)

type announcementModel struct {
	AnnouncementID string    `gorm:"column:announcement_id;primaryKey"`
	Channel        string    `gorm:"column:channel;index"`
	Title          string    `gorm:"column:title"`
	Body           string    `gorm:"column:body"`
	PostedBy       string    `gorm:"column:posted_by"`
	PostedAt       time.Time `gorm:"column:posted_at"`
}

func (announcementModel) TableName() string { return "announcements" }

type auditModel struct {
	EntryID    string    `gorm:"column:entry_id;primaryKey"`
	Kind       string    `gorm:"column:kind;index"`
	ActorID    string    `gorm:"column:actor_id"`
	Detail     string    `gorm:"column:detail"`
	CaseRef    string    `gorm:"column:case_ref"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
}

func (auditModel) TableName() string { return "audit_log" }

func toAnnouncementModel(announcement entities.Announcement) announcementModel {
	return announcementModel{
		AnnouncementID: announcement.AnnouncementID,
		Channel:        announcement.Channel,
		Title:          announcement.Title,
		Body:           announcement.Body,
		PostedBy:       announcement.PostedBy,
		PostedAt:       announcement.PostedAt,
	}
}

func toAnnouncementEntity(model announcementModel) entities.Announcement {
	return entities.Announcement{
		AnnouncementID: model.AnnouncementID,
		Channel:        model.Channel,
		Title:          model.Title,
		Body:           model.Body,
		PostedBy:       model.PostedBy,
		PostedAt:       model.PostedAt,
	}
}

func toAuditModel(entry entities.AuditEntry) auditModel {
	return auditModel{
		EntryID:    entry.EntryID,
		Kind:       entry.Kind,
		ActorID:    entry.ActorID,
		Detail:     entry.Detail,
		CaseRef:    entry.CaseRef,
		OccurredAt: entry.OccurredAt,
	}
}
