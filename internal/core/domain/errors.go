package domain

import "errors"

var (
	ErrDuplicateEmail = errors.New("user already exists")
	ErrEmailNotFound  = errors.New("email not found")
	ErrBadPassword    = errors.New("incorrect password")

	// ErrNotFoundOrUnauthorized is returned when a task or notification does not
	// exist or belongs to someone else. The two cases are never distinguished.
	ErrNotFoundOrUnauthorized = errors.New("not found or unauthorized")

	ErrMissingField            = errors.New("missing required field")
	ErrInvalidSchedule         = errors.New("start must not be after end")
	ErrInvalidStatus           = errors.New("invalid task status")
	ErrInvalidNotificationType = errors.New("invalid notification type")

	ErrPersistence = errors.New("persistence failure")
	// ErrStoreUnavailable marks a load failure where the persisted data may
	// still exist. Starting empty would overwrite it on the next save.
	ErrStoreUnavailable = errors.New("snapshot store unavailable")
	ErrDelivery    = errors.New("delivery failure")
)
