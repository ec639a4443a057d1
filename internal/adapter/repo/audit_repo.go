package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"zakatku-backend/internal/domain"
)

// AuditLogRepositoryPG persists the append-only audit trail. There is no
// update or delete on this table, here or anywhere else.
type AuditLogRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository creates a new audit log repo.
func NewAuditLogRepository(pool *pgxpool.Pool) *AuditLogRepositoryPG {
	return &AuditLogRepositoryPG{pool: pool}
}

// Append writes one entry.
func (r *AuditLogRepositoryPG) Append(ctx context.Context, e *domain.AuditEntry) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO audit_logs (id, user_id, user_email, action, table_name, record_id, old_data, new_data, created_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9);
`, e.ID, e.UserID, e.UserEmail, e.Action, e.TableName, e.RecordID, e.OldData, e.NewData, e.CreatedAt)
	return err
}

// List returns the newest entries first, up to limit.
func (r *AuditLogRepositoryPG) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, user_email, action, table_name, COALESCE(record_id, ''), old_data, new_data, created_at
FROM audit_logs
ORDER BY created_at DESC
LIMIT $1;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserEmail, &e.Action, &e.TableName,
			&e.RecordID, &e.OldData, &e.NewData, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
