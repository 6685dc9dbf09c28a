package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict: alias already exists")
	ErrInvalidAlias   = errors.New("alias must be 1-255 characters of lowercase letters, digits, '-' or '_'")
	ErrInvalidName    = errors.New("name must not be empty")
	ErrInvalidContent = errors.New("content must be between 1 and 65536 characters")
	ErrInvalidAction  = errors.New("invalid audit action: must be created, updated, or deleted")
	ErrInvalidProfile = errors.New("profile_id must be a UUID")

	// Work queue errors.
	ErrQueueClosed     = errors.New("work queue is closed")
	ErrInvalidWorkItem = errors.New("work item has no action")
	ErrInvalidCapacity = errors.New("work queue capacity must be positive")

	// ErrDeferredWorkRejected is returned alongside a successfully persisted
	// entity when its follow-up work could not be queued.
	ErrDeferredWorkRejected = errors.New("entity saved but deferred work was not queued")
)
