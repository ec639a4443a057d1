package handlers

import (
	"context"
	"time"

	"zakatku-backend/internal/domain"
)

type fakeDonationRepo struct {
	records map[string]*domain.Donation
	nextID  int
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{records: map[string]*domain.Donation{}}
}

func (r *fakeDonationRepo) Create(_ context.Context, d *domain.Donation) error {
	r.nextID++
	if d.ID == "" {
		d.ID = "don-" + time.Now().UTC().Format("150405") + "-" + string(rune('a'+r.nextID))
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	cp := *d
	r.records[d.ID] = &cp
	return nil
}

func (r *fakeDonationRepo) GetByID(_ context.Context, id string) (*domain.Donation, error) {
	d, ok := r.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDonationRepo) Update(_ context.Context, id string, patch domain.DonationPatch, editCutoff time.Time) (*domain.Donation, error) {
	d, ok := r.records[id]
	if !ok || d.IsLocked || d.IsDeleted || !d.CreatedAt.After(editCutoff) {
		return nil, domain.ErrNotFound
	}
	if patch.DonorName != nil {
		d.DonorName = *patch.DonorName
	}
	if patch.Amount != nil {
		d.Amount = *patch.Amount
	}
	if patch.Category != nil {
		d.Category = *patch.Category
	}
	if patch.Method != nil {
		d.Method = *patch.Method
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDonationRepo) SoftDelete(_ context.Context, id string) error {
	d, ok := r.records[id]
	if !ok || d.IsLocked || d.IsDeleted {
		return domain.ErrNotFound
	}
	d.IsDeleted = true
	return nil
}

func (r *fakeDonationRepo) Lock(_ context.Context, id string) (bool, error) {
	d, ok := r.records[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if d.IsLocked {
		return false, nil
	}
	d.IsLocked = true
	return true, nil
}

func (r *fakeDonationRepo) LockBetween(_ context.Context, from, to time.Time) ([]domain.Donation, error) {
	var locked []domain.Donation
	for _, d := range r.records {
		if d.IsLocked || d.IsDeleted {
			continue
		}
		if d.OccurredAt.Before(from) || !d.OccurredAt.Before(to) {
			continue
		}
		locked = append(locked, *d)
		d.IsLocked = true
	}
	return locked, nil
}

func (r *fakeDonationRepo) ListByCollector(_ context.Context, collectorID string) ([]domain.Donation, error) {
	var out []domain.Donation
	for _, d := range r.records {
		if d.CollectorID == collectorID && !d.IsDeleted {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDonationRepo) ListUndeleted(_ context.Context) ([]domain.Donation, error) {
	var out []domain.Donation
	for _, d := range r.records {
		if !d.IsDeleted {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDonationRepo) CountUnlocked(_ context.Context, collectorID string, since time.Time) (int, error) {
	n := 0
	for _, d := range r.records {
		if d.CollectorID == collectorID && !d.IsLocked && !d.IsDeleted && !d.OccurredAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = "user-" + u.Email
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) ListCollectors(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.Role == domain.UserRoleCollector {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id, name, email string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Name = name
	u.Email = email
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeAuditRepo struct {
	entries []domain.AuditEntry
}

func (r *fakeAuditRepo) Append(_ context.Context, e *domain.AuditEntry) error {
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]domain.AuditEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
