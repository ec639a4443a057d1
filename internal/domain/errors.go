package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrLocked            = errors.New("record is locked by admin")
	ErrAlreadyDeleted    = errors.New("record already deleted")
	ErrEditWindowExpired = errors.New("edit window expired")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInactiveAccount   = errors.New("account is deactivated")
	ErrSyncInProgress    = errors.New("synchronization already in progress")
	ErrPersistence       = errors.New("local storage unavailable")
)
