package service

// Hand-written in-memory fakes for the repository interfaces, shared by the
// service tests in this package.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"zakatku-backend/internal/domain"
)

type fakeDonationRepo struct {
	byID     map[string]*domain.Donation
	order    []string
	nextID   int
	nowFn    func() time.Time
	afterGet func() // runs once after the next GetByID, for read/write races
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{byID: map[string]*domain.Donation{}, nowFn: time.Now}
}

func (f *fakeDonationRepo) Create(_ context.Context, d *domain.Donation) error {
	f.nextID++
	d.ID = fmt.Sprintf("d%d", f.nextID)
	d.CreatedAt = f.nowFn()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	f.byID[d.ID] = &cp
	f.order = append(f.order, d.ID)
	return nil
}

func (f *fakeDonationRepo) GetByID(_ context.Context, id string) (*domain.Donation, error) {
	rec, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	if f.afterGet != nil {
		hook := f.afterGet
		f.afterGet = nil
		hook()
	}
	return &cp, nil
}

func (f *fakeDonationRepo) Update(_ context.Context, id string, patch domain.DonationPatch, editCutoff time.Time) (*domain.Donation, error) {
	rec, ok := f.byID[id]
	if !ok || rec.IsLocked || rec.IsDeleted || !rec.CreatedAt.After(editCutoff) {
		return nil, domain.ErrNotFound
	}
	if patch.DonorName != nil {
		rec.DonorName = *patch.DonorName
	}
	if patch.Category != nil {
		rec.Category = *patch.Category
	}
	if patch.Amount != nil {
		rec.Amount = *patch.Amount
	}
	if patch.Method != nil {
		rec.Method = *patch.Method
	}
	if patch.DonorID != nil {
		rec.DonorID = patch.DonorID
	}
	rec.UpdatedAt = f.nowFn()
	cp := *rec
	return &cp, nil
}

func (f *fakeDonationRepo) SoftDelete(_ context.Context, id string) error {
	rec, ok := f.byID[id]
	if !ok || rec.IsLocked || rec.IsDeleted {
		return domain.ErrNotFound
	}
	rec.IsDeleted = true
	rec.UpdatedAt = f.nowFn()
	return nil
}

func (f *fakeDonationRepo) Lock(_ context.Context, id string) (bool, error) {
	rec, ok := f.byID[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if rec.IsLocked || rec.IsDeleted {
		return false, nil
	}
	rec.IsLocked = true
	return true, nil
}

func (f *fakeDonationRepo) LockBetween(_ context.Context, from, to time.Time) ([]domain.Donation, error) {
	var out []domain.Donation
	for _, id := range f.order {
		rec := f.byID[id]
		if rec.IsLocked || rec.IsDeleted {
			continue
		}
		if rec.OccurredAt.Before(from) || !rec.OccurredAt.Before(to) {
			continue
		}
		out = append(out, *rec)
		rec.IsLocked = true
	}
	return out, nil
}

func (f *fakeDonationRepo) ListByCollector(_ context.Context, collectorID string) ([]domain.Donation, error) {
	var out []domain.Donation
	for i := len(f.order) - 1; i >= 0; i-- {
		rec := f.byID[f.order[i]]
		if rec.CollectorID == collectorID && !rec.IsDeleted {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeDonationRepo) ListUndeleted(_ context.Context) ([]domain.Donation, error) {
	var out []domain.Donation
	for _, id := range f.order {
		if rec := f.byID[id]; !rec.IsDeleted {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeDonationRepo) CountUnlocked(_ context.Context, collectorID string, since time.Time) (int, error) {
	n := 0
	for _, id := range f.order {
		rec := f.byID[id]
		if rec.CollectorID == collectorID && !rec.IsLocked && !rec.IsDeleted && !rec.OccurredAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.nextID++
	u.ID = fmt.Sprintf("u%d", f.nextID)
	u.CreatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) ListCollectors(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.byID {
		if u.Role == domain.UserRoleCollector {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id, name, email string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Name, u.Email = name, email
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeDonorRepo struct {
	byID   map[string]*domain.Donor
	nextID int
}

func newFakeDonorRepo() *fakeDonorRepo {
	return &fakeDonorRepo{byID: map[string]*domain.Donor{}}
}

func (f *fakeDonorRepo) Create(_ context.Context, d *domain.Donor) error {
	f.nextID++
	d.ID = fmt.Sprintf("don%d", f.nextID)
	cp := *d
	f.byID[d.ID] = &cp
	return nil
}

func (f *fakeDonorRepo) GetByID(_ context.Context, id string) (*domain.Donor, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDonorRepo) FindByNameAddress(_ context.Context, name, address string) (*domain.Donor, error) {
	for _, d := range f.byID {
		if !d.IsDeleted && strings.EqualFold(d.Name, name) && strings.EqualFold(d.Address, address) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDonorRepo) Search(_ context.Context, keyword string, limit int) ([]domain.Donor, error) {
	var out []domain.Donor
	for _, d := range f.byID {
		if d.IsDeleted {
			continue
		}
		if strings.Contains(strings.ToLower(d.Name), strings.ToLower(keyword)) {
			out = append(out, *d)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeDonorRepo) List(_ context.Context) ([]domain.Donor, error) {
	var out []domain.Donor
	for _, d := range f.byID {
		if !d.IsDeleted {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDonorRepo) Update(_ context.Context, id, name, address, phone string) (*domain.Donor, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	d.Name, d.Address, d.Phone = name, address, phone
	cp := *d
	return &cp, nil
}

func (f *fakeDonorRepo) SoftDelete(_ context.Context, id string) error {
	d, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.IsDeleted = true
	return nil
}

func (f *fakeDonorRepo) UpdatePhone(_ context.Context, id, phone string) error {
	d, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.Phone = phone
	return nil
}

type trailEntry struct {
	action   domain.AuditAction
	table    string
	recordID string
	old, new any
}

type fakeTrail struct {
	entries []trailEntry
	fail    error
}

func (f *fakeTrail) Record(_ context.Context, _ domain.Actor, action domain.AuditAction, table, recordID string, oldState, newState any) error {
	if f.fail != nil {
		return f.fail
	}
	f.entries = append(f.entries, trailEntry{action: action, table: table, recordID: recordID, old: oldState, new: newState})
	return nil
}
