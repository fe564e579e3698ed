package services

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestNewCaseReferenceFormat(t *testing.T) {
	now := time.Date(2026, 1, 19, 12, 0, 0, 0, time.UTC)
	ref := NewCaseReference(now)
	if !regexp.MustCompile(`^FEC-26-0119-\d{4}$`).MatchString(ref) {
		t.Fatalf("unexpected case reference %q", ref)
	}
}

func TestUnauthorizedNoticeCarriesCaseRef(t *testing.T) {
	notice := UnauthorizedNotice("FEC-26-0119-4242")
	if !strings.Contains(notice, "FEC-26-0119-4242") {
		t.Fatalf("notice must include the case reference: %q", notice)
	}
	if !strings.Contains(notice, "UNAUTHORIZED ELECTION ACTIVITY") {
		t.Fatalf("unexpected notice text: %q", notice)
	}
}

func TestFormatHeader(t *testing.T) {
	if got := FormatHeader("Polls Open"); got != "# :FEC: | Polls Open" {
		t.Fatalf("unexpected header %q", got)
	}
}
