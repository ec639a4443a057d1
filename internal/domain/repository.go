package domain

import (
	"context"
	"time"
)

// DonationRepository handles donation persistence. Mutating methods re-check
// the lock, delete and edit-window conditions inside the store itself so that
// a stale client-side read can never slip a forbidden write through.
type DonationRepository interface {
	// Create inserts the donation and fills ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, d *Donation) error
	GetByID(ctx context.Context, id string) (*Donation, error)
	// Update applies the patch only while the record is unlocked, undeleted
	// and was created after editCutoff. ErrNotFound when no row qualifies;
	// the caller re-reads to classify the rejection.
	Update(ctx context.Context, id string, patch DonationPatch, editCutoff time.Time) (*Donation, error)
	// SoftDelete flips the deleted flag on an unlocked, undeleted record.
	SoftDelete(ctx context.Context, id string) error
	// Lock sets the lock flag and reports whether this call locked the
	// record (false when it was locked already).
	Lock(ctx context.Context, id string) (bool, error)
	// LockBetween locks every unlocked, undeleted donation that occurred in
	// [from, to) and returns the records as they were before locking.
	LockBetween(ctx context.Context, from, to time.Time) ([]Donation, error)
	ListByCollector(ctx context.Context, collectorID string) ([]Donation, error)
	ListUndeleted(ctx context.Context) ([]Donation, error)
	// CountUnlocked counts a collector's unlocked, undeleted donations that
	// occurred at or after since. Used to refuse deactivating a collector
	// with an open day.
	CountUnlocked(ctx context.Context, collectorID string, since time.Time) (int, error)
}

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListCollectors(ctx context.Context) ([]User, error)
	UpdateProfile(ctx context.Context, id, name, email string) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// DonorRepository handles the donor registry.
type DonorRepository interface {
	Create(ctx context.Context, d *Donor) error
	GetByID(ctx context.Context, id string) (*Donor, error)
	// FindByNameAddress matches name and address case-insensitively among
	// undeleted donors. ErrNotFound when absent.
	FindByNameAddress(ctx context.Context, name, address string) (*Donor, error)
	Search(ctx context.Context, keyword string, limit int) ([]Donor, error)
	List(ctx context.Context) ([]Donor, error)
	Update(ctx context.Context, id, name, address, phone string) (*Donor, error)
	SoftDelete(ctx context.Context, id string) error
	UpdatePhone(ctx context.Context, id, phone string) error
}

// AuditLogRepository is append-only: entries can be written and read, never
// altered or removed.
type AuditLogRepository interface {
	Append(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, limit int) ([]AuditEntry, error)
}
