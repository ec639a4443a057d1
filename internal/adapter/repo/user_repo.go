package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zakatku-backend/internal/domain"
)

const userColumns = `id, nama, email, password, role, is_active, created_at, updated_at`

// UserRepositoryPG implements UserRepository using PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repo.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

// Create inserts a new account.
func (r *UserRepositoryPG) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO users (id, nama, email, password, role, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, updated_at;
`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive)
	return row.Scan(&u.CreatedAt, &u.UpdatedAt)
}

// GetByID fetches one account.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id)
	return scanUser(row)
}

// GetByEmail fetches one account by its unique email.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1);`, email)
	return scanUser(row)
}

// ListCollectors returns every juru pungut account, newest first.
func (r *UserRepositoryPG) ListCollectors(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+userColumns+`
FROM users
WHERE role = $1
ORDER BY created_at DESC;
`, domain.UserRoleCollector)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
			&u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateProfile changes name and email.
func (r *UserRepositoryPG) UpdateProfile(ctx context.Context, id, name, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE users SET nama = $2, email = $3, updated_at = now()
WHERE id = $1
RETURNING `+userColumns+`;
`, id, name, email)
	return scanUser(row)
}

// UpdatePassword replaces the stored hash.
func (r *UserRepositoryPG) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.execOne(ctx, `UPDATE users SET password = $2, updated_at = now() WHERE id = $1;`, id, passwordHash)
}

// SetActive flips the active flag.
func (r *UserRepositoryPG) SetActive(ctx context.Context, id string, active bool) error {
	return r.execOne(ctx, `UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1;`, id, active)
}

// Delete removes the account row.
func (r *UserRepositoryPG) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM users WHERE id = $1;`, id)
}

func (r *UserRepositoryPG) execOne(ctx context.Context, sql string, args ...any) error {
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
