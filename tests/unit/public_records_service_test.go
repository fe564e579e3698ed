package unit

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	publicrecords "madison/contexts/election-commission/public-records-service"
	"madison/contexts/election-commission/public-records-service/domain/entities"
	recordserrors "madison/contexts/election-commission/public-records-service/domain/errors"
	recordshttp "madison/contexts/election-commission/public-records-service/transport/http"
)

var caseRefPattern = regexp.MustCompile(`^FEC-\d{2}-\d{4}-\d{4}$`)

func TestPublishAnnouncementToApprovedChannel(t *testing.T) {
	module := publicrecords.NewInMemoryModule(nil)
	ctx := context.Background()

	resp, err := module.Handler.PublishAnnouncementHandler(ctx, "chair-1", recordshttp.PublishAnnouncementRequest{
		Channel: "FEC-Announcements",
		Title:   "Polls Open",
		Body:    "Voting is now open for the 2026 general election.",
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if resp.Channel != "fec-announcements" {
		t.Fatalf("expected normalized channel, got %q", resp.Channel)
	}
	if !strings.HasPrefix(resp.Rendered, "# :FEC: | Polls Open") {
		t.Fatalf("expected commission header, got %q", resp.Rendered)
	}

	list, err := module.Handler.ListAnnouncementsHandler(ctx, "fec-announcements")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Announcements) != 1 || list.Announcements[0].PostedBy != "chair-1" {
		t.Fatalf("unexpected announcement list %+v", list)
	}

	audit := module.Store.AuditEntries()
	if len(audit) != 1 || audit[0].Kind != entities.AuditKindAnnouncementPosted {
		t.Fatalf("expected posted audit entry, got %+v", audit)
	}
}

func TestPublishAnnouncementBlockedChannel(t *testing.T) {
	module := publicrecords.NewInMemoryModule(nil)
	ctx := context.Background()

	_, err := module.Handler.PublishAnnouncementHandler(ctx, "chair-1", recordshttp.PublishAnnouncementRequest{
		Channel: "general-chat",
		Title:   "Polls Open",
		Body:    "Voting is now open.",
	})
	if !errors.Is(err, recordserrors.ErrChannelNotApproved) {
		t.Fatalf("expected channel not approved, got %v", err)
	}

	audit := module.Store.AuditEntries()
	if len(audit) != 1 || audit[0].Kind != entities.AuditKindAnnouncementBlocked {
		t.Fatalf("expected blocked audit entry, got %+v", audit)
	}
	if !caseRefPattern.MatchString(audit[0].CaseRef) {
		t.Fatalf("expected FEC case reference, got %q", audit[0].CaseRef)
	}

	list, err := module.Handler.ListAnnouncementsHandler(ctx, "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Announcements) != 0 {
		t.Fatalf("blocked announcement must not be stored, got %+v", list)
	}
}

func TestPublishAnnouncementValidation(t *testing.T) {
	module := publicrecords.NewInMemoryModule(nil)
	ctx := context.Background()

	bad := []recordshttp.PublishAnnouncementRequest{
		{Channel: "fec-announcements", Title: "", Body: "b"},
		{Channel: "fec-announcements", Title: "t", Body: " "},
		{Channel: "", Title: "t", Body: "b"},
	}
	for i, req := range bad {
		if _, err := module.Handler.PublishAnnouncementHandler(ctx, "chair-1", req); !errors.Is(err, recordserrors.ErrInvalidAnnouncement) {
			t.Fatalf("case %d: expected invalid announcement, got %v", i, err)
		}
	}
}

func TestRecordUnauthorizedAttempt(t *testing.T) {
	module := publicrecords.NewInMemoryModule(nil)
	ctx := context.Background()

	caseRef := module.Handler.RecordUnauthorizedAttempt(ctx, "intruder-9", "POST /api/elections/v1/elections requires CAN_ADMINISTER")
	if !caseRefPattern.MatchString(caseRef) {
		t.Fatalf("expected FEC case reference, got %q", caseRef)
	}

	audit := module.Store.AuditEntries()
	if len(audit) != 1 || audit[0].Kind != entities.AuditKindUnauthorizedAttempt {
		t.Fatalf("expected unauthorized attempt audit entry, got %+v", audit)
	}
	if audit[0].CaseRef != caseRef {
		t.Fatalf("audit case ref mismatch: %q vs %q", audit[0].CaseRef, caseRef)
	}
}
