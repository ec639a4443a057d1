// Package guard enforces who may mutate a donation record and until when.
package guard

import (
	"time"

	"zakatku-backend/internal/domain"
)

// EditWindow is how long after creation a collector may still amend an entry.
const EditWindow = 5 * time.Minute

// Op enumerates the mutations the guard arbitrates.
type Op int

const (
	OpUpdate Op = iota
	OpSoftDelete
	OpLock
)

// Grant is the authorization token returned by a successful check. It is
// advisory: the repository re-verifies the same conditions at write time, so
// a Grant only proves the policy held at IssuedAt.
type Grant struct {
	RecordID string
	Op       Op
	IssuedAt time.Time
}

// Authorize checks the lock flag, delete flag and edit window against the
// record state as read immediately before the mutation. The edit window is
// exclusive: a record exactly EditWindow old can no longer be updated.
// Lock and soft-delete are admin actions exempt from the window but still
// blocked by the lock flag.
func Authorize(rec domain.Donation, op Op, now time.Time) (Grant, error) {
	if rec.IsLocked {
		return Grant{}, domain.ErrLocked
	}
	if op == OpSoftDelete && rec.IsDeleted {
		return Grant{}, domain.ErrAlreadyDeleted
	}
	if op == OpUpdate && now.Sub(rec.CreatedAt) >= EditWindow {
		return Grant{}, domain.ErrEditWindowExpired
	}
	return Grant{RecordID: rec.ID, Op: op, IssuedAt: now}, nil
}

// EditCutoff returns the oldest creation time still inside the edit window
// at now. Repositories compare created_at against it when applying updates.
func EditCutoff(now time.Time) time.Time {
	return now.Add(-EditWindow)
}
