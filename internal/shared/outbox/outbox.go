package outbox

// Status values for outbox rows persisted inside the same DB transaction as
// state changes. The worker relay reads pending rows and publishes them to
// the message bus.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)
