package offline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"zakatku-backend/internal/domain"
)

// RecordStore is the slice of the remote store the synchronizer needs:
// insert a donation and get its assigned identity back. Each call is
// independently atomic; there is no cross-call transaction.
type RecordStore interface {
	Create(ctx context.Context, d *domain.Donation) error
}

// AuditAppender writes one trail entry per replayed item.
type AuditAppender interface {
	Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, table, recordID string, oldState, newState any) error
}

// Synchronizer drains the offline queue against the record store. A single
// instance must not run two passes at once; the in-flight flag belongs to
// the instance, not to package state, so independent devices can coexist.
type Synchronizer struct {
	queue    *Queue
	store    RecordStore
	audit    AuditAppender
	log      zerolog.Logger
	inFlight atomic.Bool
}

// NewSynchronizer wires a synchronizer for one device queue.
func NewSynchronizer(queue *Queue, store RecordStore, audit AuditAppender, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{queue: queue, store: store, audit: audit, log: log}
}

// Sync replays the queue oldest first, one item at a time. A failed item is
// retained for the next pass and does not stop the batch; partial failure is
// a normal outcome reported in the result, not an error. Sync errors only
// when a second pass is already in flight or the local queue itself cannot
// be read or written.
func (s *Synchronizer) Sync(ctx context.Context, actor domain.Actor) (domain.SyncResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return domain.SyncResult{}, domain.ErrSyncInProgress
	}
	defer s.inFlight.Store(false)

	items, err := s.queue.List()
	if err != nil {
		return domain.SyncResult{}, fmt.Errorf("sync: read queue: %w", err)
	}
	if len(items) == 0 {
		return domain.SyncResult{Message: "no offline data"}, nil
	}

	var (
		succeeded int
		failed    []domain.QueueItem
	)
	for _, item := range items {
		if err := s.replay(ctx, actor, item); err != nil {
			s.log.Warn().Err(err).Str("offline_id", item.LocalID).Msg("offline item retained for retry")
			failed = append(failed, item)
			continue
		}
		succeeded++
	}

	if len(failed) == 0 {
		if err := s.queue.RemoveAll(); err != nil {
			return domain.SyncResult{}, fmt.Errorf("sync: clear queue: %w", err)
		}
	} else {
		if err := s.queue.Replace(failed); err != nil {
			return domain.SyncResult{}, fmt.Errorf("sync: retain failed items: %w", err)
		}
	}

	res := domain.SyncResult{
		Succeeded: succeeded,
		Failed:    len(failed),
		Message:   fmt.Sprintf("%d succeeded, %d failed", succeeded, len(failed)),
	}
	s.log.Info().Int("succeeded", res.Succeeded).Int("failed", res.Failed).Msg("sync pass finished")
	return res, nil
}

// replay submits one item: local-only fields are stripped (the draft never
// carried them), the donation is inserted as-is, and the audit entry is
// appended after. The insert is a plain insert, not an upsert; resubmitting
// an item the server actually received but never acknowledged duplicates it.
// That gap is documented rather than masked here.
func (s *Synchronizer) replay(ctx context.Context, actor domain.Actor, item domain.QueueItem) error {
	draft := item.Draft
	occurredAt := draft.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = item.SavedAt
	}
	d := &domain.Donation{
		DonorName:   draft.DonorName,
		Category:    draft.Category,
		Amount:      draft.Amount,
		Method:      draft.Method,
		CollectorID: draft.CollectorID,
		DonorID:     draft.DonorID,
		OccurredAt:  occurredAt,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}

	// The insert committed; a failed audit append is a soft failure. The
	// donation stays, the gap is logged, the item still counts as synced.
	if err := s.audit.Record(ctx, actor, domain.AuditInsertOfflineSync, "donasi", d.ID, nil, snapshot(d)); err != nil {
		s.log.Warn().Err(err).Str("donation_id", d.ID).Msg("audit entry missing for synced donation")
	}
	return nil
}

func snapshot(d *domain.Donation) map[string]any {
	return map[string]any{
		"id":             d.ID,
		"nama_donatur":   d.DonorName,
		"jenis_zakat":    d.Category,
		"nominal":        d.Amount,
		"metode":         d.Method,
		"juru_pungut_id": d.CollectorID,
		"tanggal_donasi": d.OccurredAt.Format(time.RFC3339),
	}
}
