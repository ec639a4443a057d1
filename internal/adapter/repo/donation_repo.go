package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zakatku-backend/internal/domain"
)

const donationColumns = `
id, nama_donatur, jenis_zakat, nominal, metode_pembayaran,
juru_pungut_id, donatur_id, tanggal_donasi, created_at, updated_at,
is_locked, is_deleted`

// DonationRepositoryPG implements DonationRepository using PostgreSQL.
// The mutating queries carry the lock, delete and edit-window conditions in
// their WHERE clauses so the state at write time, not a client-cached copy,
// decides whether the write happens.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepositoryPG {
	return &DonationRepositoryPG{pool: pool}
}

// Create inserts a new donation record and fills its assigned identity.
func (r *DonationRepositoryPG) Create(ctx context.Context, d *domain.Donation) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO donasi (id, nama_donatur, jenis_zakat, nominal, metode_pembayaran,
                    juru_pungut_id, donatur_id, tanggal_donasi)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at, updated_at;
`, d.ID, d.DonorName, d.Category, d.Amount, d.Method, d.CollectorID, d.DonorID, d.OccurredAt)
	return row.Scan(&d.CreatedAt, &d.UpdatedAt)
}

// GetByID fetches one record, deleted or not; callers decide how a deleted
// record is treated.
func (r *DonationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+donationColumns+` FROM donasi WHERE id = $1;`, id)
	return scanDonation(row)
}

// Update applies the patch while the window and flags still allow it.
func (r *DonationRepositoryPG) Update(ctx context.Context, id string, patch domain.DonationPatch, editCutoff time.Time) (*domain.Donation, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE donasi SET
    nama_donatur      = COALESCE($2, nama_donatur),
    jenis_zakat       = COALESCE($3, jenis_zakat),
    nominal           = COALESCE($4, nominal),
    metode_pembayaran = COALESCE($5, metode_pembayaran),
    donatur_id        = COALESCE($6, donatur_id),
    updated_at        = now()
WHERE id = $1
  AND is_locked = false
  AND is_deleted = false
  AND created_at > $7
RETURNING `+donationColumns+`;
`, id, patch.DonorName, (*string)(patch.Category), patch.Amount, (*string)(patch.Method), patch.DonorID, editCutoff)
	return scanDonation(row)
}

// SoftDelete flips the deleted flag on an unlocked, undeleted record.
func (r *DonationRepositoryPG) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE donasi SET is_deleted = true, updated_at = now()
WHERE id = $1 AND is_locked = false AND is_deleted = false;
`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Lock sets the lock flag; reports false when the record was locked already.
func (r *DonationRepositoryPG) Lock(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE donasi SET is_locked = true, updated_at = now()
WHERE id = $1 AND is_locked = false AND is_deleted = false;
`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// LockBetween locks the day's open records and returns their prior state.
func (r *DonationRepositoryPG) LockBetween(ctx context.Context, from, to time.Time) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, `
UPDATE donasi SET is_locked = true, updated_at = now()
WHERE tanggal_donasi >= $1 AND tanggal_donasi < $2
  AND is_locked = false AND is_deleted = false
RETURNING `+donationColumns+`;
`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collectDonations(rows)
	if err != nil {
		return nil, err
	}
	// RETURNING reflects the post-update row; restore the pre-lock view for
	// the audit snapshots.
	for i := range items {
		items[i].IsLocked = false
	}
	return items, nil
}

// ListByCollector returns a collector's undeleted donations, newest first.
func (r *DonationRepositoryPG) ListByCollector(ctx context.Context, collectorID string) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+donationColumns+`
FROM donasi
WHERE juru_pungut_id = $1 AND is_deleted = false
ORDER BY tanggal_donasi DESC;
`, collectorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

// ListUndeleted returns every undeleted donation, oldest first.
func (r *DonationRepositoryPG) ListUndeleted(ctx context.Context) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+donationColumns+`
FROM donasi
WHERE is_deleted = false
ORDER BY tanggal_donasi;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

// CountUnlocked counts a collector's open donations since the given time.
func (r *DonationRepositoryPG) CountUnlocked(ctx context.Context, collectorID string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
SELECT count(*)
FROM donasi
WHERE juru_pungut_id = $1 AND tanggal_donasi >= $2
  AND is_locked = false AND is_deleted = false;
`, collectorID, since).Scan(&n)
	return n, err
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var d domain.Donation
	err := row.Scan(&d.ID, &d.DonorName, &d.Category, &d.Amount, &d.Method,
		&d.CollectorID, &d.DonorID, &d.OccurredAt, &d.CreatedAt, &d.UpdatedAt,
		&d.IsLocked, &d.IsDeleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDonations(rows pgx.Rows) ([]domain.Donation, error) {
	var items []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.DonorName, &d.Category, &d.Amount, &d.Method,
			&d.CollectorID, &d.DonorID, &d.OccurredAt, &d.CreatedAt, &d.UpdatedAt,
			&d.IsLocked, &d.IsDeleted); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
