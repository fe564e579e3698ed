package services

import (
	"fmt"
	"math/rand"
	"time"
)

// NewCaseReference builds a public case reference like FEC-26-0119-8130
// (YY-MMDD-RAND4). References are traceable tokens, not secrets.
func NewCaseReference(now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("FEC-%s-%s-%04d",
		now.Format("06"),
		now.Format("0102"),
		1000+rand.Intn(9000),
	)
}

// UnauthorizedNotice is the canonical text shown to actors attempting
// official election communications without authorization.
func UnauthorizedNotice(caseRef string) string {
	return "FEC NOTICE — UNAUTHORIZED ELECTION ACTIVITY\n\n" +
		"Pursuant to FEC Administrative Code §1.04(b), you are not authorized " +
		"to issue official election communications.\n\n" +
		"Case Reference: " + caseRef + "\n\n" +
		"This action has been logged. Continued attempts may result in administrative review."
}

// FormatHeader renders the commission announcement header.
func FormatHeader(title string) string {
	return "# :FEC: | " + title
}
