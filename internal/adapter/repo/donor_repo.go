package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zakatku-backend/internal/domain"
)

const donorColumns = `id, nama, alamat, no_hp, is_deleted, created_at, updated_at`

// DonorRepositoryPG implements DonorRepository using PostgreSQL.
type DonorRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonorRepository creates a new donor repo.
func NewDonorRepository(pool *pgxpool.Pool) *DonorRepositoryPG {
	return &DonorRepositoryPG{pool: pool}
}

// Create inserts a new donor.
func (r *DonorRepositoryPG) Create(ctx context.Context, d *domain.Donor) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO donatur (id, nama, alamat, no_hp)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at;
`, d.ID, d.Name, d.Address, d.Phone)
	return row.Scan(&d.CreatedAt, &d.UpdatedAt)
}

// GetByID fetches one donor.
func (r *DonorRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Donor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+donorColumns+` FROM donatur WHERE id = $1;`, id)
	return scanDonor(row)
}

// FindByNameAddress matches name and address case-insensitively among
// undeleted donors, the same dedupe rule the CSV import has always used.
func (r *DonorRepositoryPG) FindByNameAddress(ctx context.Context, name, address string) (*domain.Donor, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+donorColumns+`
FROM donatur
WHERE nama ILIKE $1 AND alamat ILIKE $2 AND is_deleted = false
LIMIT 1;
`, name, address)
	return scanDonor(row)
}

// Search finds donors whose name contains the keyword.
func (r *DonorRepositoryPG) Search(ctx context.Context, keyword string, limit int) ([]domain.Donor, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+donorColumns+`
FROM donatur
WHERE nama ILIKE '%' || $1 || '%' AND is_deleted = false
ORDER BY nama
LIMIT $2;
`, keyword, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonors(rows)
}

// List returns every undeleted donor ordered by name.
func (r *DonorRepositoryPG) List(ctx context.Context) ([]domain.Donor, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+donorColumns+`
FROM donatur
WHERE is_deleted = false
ORDER BY nama;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonors(rows)
}

// Update edits name, address and phone.
func (r *DonorRepositoryPG) Update(ctx context.Context, id, name, address, phone string) (*domain.Donor, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE donatur SET nama = $2, alamat = $3, no_hp = $4, updated_at = now()
WHERE id = $1
RETURNING `+donorColumns+`;
`, id, name, address, phone)
	return scanDonor(row)
}

// SoftDelete hides the donor from searches and listings.
func (r *DonorRepositoryPG) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE donatur SET is_deleted = true, updated_at = now()
WHERE id = $1 AND is_deleted = false;
`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePhone is the CSV import's narrow update.
func (r *DonorRepositoryPG) UpdatePhone(ctx context.Context, id, phone string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE donatur SET no_hp = $2, updated_at = now() WHERE id = $1;`, id, phone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanDonor(row pgx.Row) (*domain.Donor, error) {
	var d domain.Donor
	err := row.Scan(&d.ID, &d.Name, &d.Address, &d.Phone, &d.IsDeleted, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDonors(rows pgx.Rows) ([]domain.Donor, error) {
	var items []domain.Donor
	for rows.Next() {
		var d domain.Donor
		if err := rows.Scan(&d.ID, &d.Name, &d.Address, &d.Phone, &d.IsDeleted, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
