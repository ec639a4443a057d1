// Package audit appends immutable trail entries for every mutating operation.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"zakatku-backend/internal/domain"
)

// Recorder writes audit entries through an append-only repository.
type Recorder struct {
	repo domain.AuditLogRepository
}

// NewRecorder creates a recorder over the given repository.
func NewRecorder(repo domain.AuditLogRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record appends one entry. oldState and newState are structural snapshots
// and may be nil for creations and deletions respectively. The store offers
// no cross-table transaction, so callers decide whether a failed append
// fails the enclosing operation or is reported as a soft failure.
func (r *Recorder) Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, table, recordID string, oldState, newState any) error {
	entry := &domain.AuditEntry{
		ID:        uuid.NewString(),
		UserID:    actor.UserID,
		UserEmail: actor.Email,
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		CreatedAt: time.Now().UTC(),
	}

	var err error
	if entry.OldData, err = marshalSnapshot(oldState); err != nil {
		return fmt.Errorf("audit: marshal old state: %w", err)
	}
	if entry.NewData, err = marshalSnapshot(newState); err != nil {
		return fmt.Errorf("audit: marshal new state: %w", err)
	}

	if err := r.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("audit: append %s on %s/%s: %w", action, table, recordID, err)
	}
	return nil
}

func marshalSnapshot(state any) (json.RawMessage, error) {
	if state == nil {
		return nil, nil
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
