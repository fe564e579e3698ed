package errors

import "errors"

var (
	ErrValidation         = errors.New("invalid authorization input")
	ErrDuplicateGrant     = errors.New("capability already granted to actor")
	ErrGrantNotFound      = errors.New("grant not found")
	ErrStorageUnavailable = errors.New("authorization storage is unavailable")
)
