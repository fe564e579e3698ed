package entities

import "time"

// Capability names one commission operation class an actor may perform.
type Capability string

const (
	CanAdminister Capability = "CAN_ADMINISTER"
	CanVote       Capability = "CAN_VOTE"
	CanReview     Capability = "CAN_REVIEW"
	CanAnnounce   Capability = "CAN_ANNOUNCE"
)

// ValidCapability reports whether the value is one of the known capabilities.
func ValidCapability(capability Capability) bool {
	switch capability {
	case CanAdminister, CanVote, CanReview, CanAnnounce:
		return true
	default:
		return false
	}
}

// Grant is an active or revoked capability grant for an actor.
type Grant struct {
	GrantID    string
	ActorID    string
	Capability Capability
	GrantedBy  string
	GrantedAt  time.Time
	RevokedAt  *time.Time
	RevokedBy  string
}

// Active reports whether the grant is currently in force.
func (g Grant) Active() bool {
	return g.RevokedAt == nil
}
