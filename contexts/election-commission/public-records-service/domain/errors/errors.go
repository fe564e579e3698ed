package errors

import "errors"

var (
	ErrInvalidAnnouncement = errors.New("invalid announcement input")
	ErrChannelNotApproved  = errors.New("channel is not approved for announcements")
	ErrStorageUnavailable  = errors.New("public records storage is unavailable")
)
