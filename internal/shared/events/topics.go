package events

// Canonical bus topics for the election commission. Topic names double as
// event types; producers publish the envelope under the matching topic.
const (
	TopicBallotSubmitted       = "ballot.submitted"
	TopicBallotReviewed        = "ballot.reviewed"
	TopicElectionCertified     = "election.certified"
	TopicCertificationReverted = "election.certification_reverted"
)

// Consumer group names used by worker processes.
const (
	GroupReportRefresh = "election-engine.report-refresh"
)
