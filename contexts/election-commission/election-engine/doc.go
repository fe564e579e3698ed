// Package electionengine implements the election lifecycle and
// ballot-tabulation engine inside the election-commission context.
//
// The module owns the election state machine (draft/open/closed/certified),
// candidate registration, ballot intake with one-ballot-per-voter integrity,
// race-safe adjudication, per-office tabulation, and certification snapshots.
// Business rules live in the application/domain layers; infrastructure stays
// behind ports and adapters.
package electionengine
