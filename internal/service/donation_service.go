// Package service implements the application operations behind the HTTP API
// and the device agent.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"zakatku-backend/internal/domain"
	"zakatku-backend/internal/guard"
	"zakatku-backend/internal/report"
)

// auditTrail is the slice of the audit recorder the services use.
type auditTrail interface {
	Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, table, recordID string, oldState, newState any) error
}

const donationsTable = "donasi"

// DonationInput is a capture request, online or offline.
type DonationInput struct {
	DonorName   string               `json:"nama_donatur" validate:"required"`
	Category    domain.ZakatCategory `json:"jenis_zakat" validate:"required,oneof=zakat_fitrah zakat_maal infaq sedekah"`
	Amount      int64                `json:"nominal" validate:"required,gt=0"`
	Method      domain.PaymentMethod `json:"metode_pembayaran" validate:"required,oneof=tunai transfer"`
	CollectorID string               `json:"juru_pungut_id" validate:"required"`
	DonorID     *string              `json:"donatur_id"`
	OccurredAt  time.Time            `json:"tanggal_donasi"`
}

// Draft converts the input to the offline queue payload.
func (in DonationInput) Draft() domain.DonationDraft {
	return domain.DonationDraft{
		DonorName:   in.DonorName,
		Category:    in.Category,
		Amount:      in.Amount,
		Method:      in.Method,
		CollectorID: in.CollectorID,
		DonorID:     in.DonorID,
		OccurredAt:  in.OccurredAt,
	}
}

// DonationService covers capture, amendment, locking and soft deletion of
// donation records, with the guard checked before and inside every write.
type DonationService struct {
	donations domain.DonationRepository
	users     domain.UserRepository
	trail     auditTrail
	validate  *validator.Validate
	log       zerolog.Logger
	now       func() time.Time
}

// NewDonationService wires the donation operations.
func NewDonationService(donations domain.DonationRepository, users domain.UserRepository, trail auditTrail, log zerolog.Logger) *DonationService {
	return &DonationService{
		donations: donations,
		users:     users,
		trail:     trail,
		validate:  validator.New(),
		log:       log,
		now:       time.Now,
	}
}

// Create records a donation through the online path and audits the insert.
func (s *DonationService) Create(ctx context.Context, actor domain.Actor, in DonationInput) (*domain.Donation, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("validate donation: %w", err)
	}
	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.now().UTC()
	}
	d := &domain.Donation{
		DonorName:   in.DonorName,
		Category:    in.Category,
		Amount:      in.Amount,
		Method:      in.Method,
		CollectorID: in.CollectorID,
		DonorID:     in.DonorID,
		OccurredAt:  occurredAt,
	}
	if err := s.donations.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}
	s.recordSoft(ctx, actor, domain.AuditInsert, d.ID, nil, d)
	return d, nil
}

// Update amends a record within its edit window. The guard runs on the state
// read just before the write and the repository re-checks the same
// conditions inside the UPDATE itself, so a concurrent lock or expiry
// between read and write still rejects the mutation.
func (s *DonationService) Update(ctx context.Context, actor domain.Actor, id string, patch domain.DonationPatch) (*domain.Donation, error) {
	old, err := s.donations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if _, err := guard.Authorize(*old, guard.OpUpdate, now); err != nil {
		return nil, err
	}

	updated, err := s.donations.Update(ctx, id, patch, guard.EditCutoff(now))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, s.classifyRejection(ctx, id, guard.OpUpdate)
	}
	if err != nil {
		return nil, fmt.Errorf("update donation: %w", err)
	}
	s.recordSoft(ctx, actor, domain.AuditUpdate, id, old, updated)
	return updated, nil
}

// SoftDelete flips the deleted flag. The record stays for the audit trail
// and disappears from listings and aggregates.
func (s *DonationService) SoftDelete(ctx context.Context, actor domain.Actor, id string) error {
	old, err := s.donations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := guard.Authorize(*old, guard.OpSoftDelete, s.now()); err != nil {
		return err
	}

	err = s.donations.SoftDelete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return s.classifyRejection(ctx, id, guard.OpSoftDelete)
	}
	if err != nil {
		return fmt.Errorf("soft delete donation: %w", err)
	}
	s.recordSoft(ctx, actor, domain.AuditDeleteSoft, id, old, nil)
	return nil
}

// Lock freezes one record against further edits. Locking an already-locked
// record is an idempotent no-op: no error, no extra audit entry.
func (s *DonationService) Lock(ctx context.Context, actor domain.Actor, id string) error {
	old, err := s.donations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if old.IsLocked {
		return nil
	}
	locked, err := s.donations.Lock(ctx, id)
	if err != nil {
		return fmt.Errorf("lock donation: %w", err)
	}
	if !locked {
		// Someone else locked it between the read and the write.
		return nil
	}
	s.recordSoft(ctx, actor, domain.AuditLock, id,
		map[string]bool{"is_locked": false}, map[string]bool{"is_locked": true})
	return nil
}

// LockToday locks every unlocked, undeleted donation dated today and writes
// one LOCK audit entry per record. Returns how many records were locked.
func (s *DonationService) LockToday(ctx context.Context, actor domain.Actor) (int, error) {
	now := s.now()
	y, m, d := now.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	locked, err := s.donations.LockBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("lock today: %w", err)
	}
	for _, rec := range locked {
		s.recordSoft(ctx, actor, domain.AuditLock, rec.ID,
			map[string]bool{"is_locked": false}, map[string]bool{"is_locked": true})
	}
	return len(locked), nil
}

// ListByCollector returns a collector's undeleted donations, newest first.
func (s *DonationService) ListByCollector(ctx context.Context, collectorID string) ([]domain.Donation, error) {
	return s.donations.ListByCollector(ctx, collectorID)
}

// CollectorSummaries builds the per-collector totals report.
func (s *DonationService) CollectorSummaries(ctx context.Context) ([]report.CollectorSummary, error) {
	donations, err := s.donations.ListUndeleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	collectors, err := s.users.ListCollectors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collectors: %w", err)
	}
	return report.SummarizeByCollector(donations, collectors), nil
}

// classifyRejection re-reads a record after a conditional write matched no
// rows and maps the store state to the policy error the caller should see.
func (s *DonationService) classifyRejection(ctx context.Context, id string, op guard.Op) error {
	rec, err := s.donations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case rec.IsLocked:
		return domain.ErrLocked
	case rec.IsDeleted && op == guard.OpSoftDelete:
		return domain.ErrAlreadyDeleted
	case rec.IsDeleted:
		return domain.ErrNotFound
	case op == guard.OpUpdate:
		return domain.ErrEditWindowExpired
	default:
		return domain.ErrNotFound
	}
}

// recordSoft appends an audit entry and logs instead of failing when the
// append itself fails: the mutation already committed and the store has no
// cross-table transaction to roll it back with.
func (s *DonationService) recordSoft(ctx context.Context, actor domain.Actor, action domain.AuditAction, recordID string, oldState, newState any) {
	if err := s.trail.Record(ctx, actor, action, donationsTable, recordID, oldState, newState); err != nil {
		s.log.Warn().Err(err).Str("record_id", recordID).Str("action", string(action)).Msg("audit entry not written")
	}
}
