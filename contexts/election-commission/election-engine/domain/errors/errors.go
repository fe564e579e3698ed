package errors

import "errors"

var (
	ErrValidation         = errors.New("invalid or missing input")
	ErrDuplicate          = errors.New("uniqueness violation")
	ErrInvalidState       = errors.New("operation not legal in current election state")
	ErrLocked             = errors.New("election is certified and locked")
	ErrAlreadyReviewed    = errors.New("ballot was already reviewed")
	ErrStorageUnavailable = errors.New("durable store unreachable or timed out")

	ErrElectionNotFound      = errors.New("election not found")
	ErrCandidateNotFound     = errors.New("candidate not found")
	ErrBallotNotFound        = errors.New("ballot not found")
	ErrCertificationNotFound = errors.New("certification not found")
)
