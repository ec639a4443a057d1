package domain

import (
	"encoding/json"
	"time"
)

// AuditAction tags the kind of mutation an audit entry records.
type AuditAction string

const (
	AuditInsert            AuditAction = "INSERT"
	AuditUpdate            AuditAction = "UPDATE"
	AuditLock              AuditAction = "LOCK"
	AuditDeleteSoft        AuditAction = "DELETE_SOFT"
	AuditCreateUser        AuditAction = "CREATE_USER"
	AuditUpdateUser        AuditAction = "UPDATE_USER"
	AuditDeleteUser        AuditAction = "DELETE_USER"
	AuditDeactivateUser    AuditAction = "DEACTIVATE_USER"
	AuditActivateUser      AuditAction = "ACTIVATE_USER"
	AuditChangePassword    AuditAction = "CHANGE_PASSWORD"
	AuditInsertOfflineSync AuditAction = "INSERT_OFFLINE_SYNC"
	AuditUploadDonorCSV    AuditAction = "UPLOAD_DONATUR_CSV"
)

// AuditEntry is one row of the append-only audit trail. Entries are never
// updated or removed once written; ordering by CreatedAt defines the trail.
type AuditEntry struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	UserEmail string          `json:"user_email"`
	Action    AuditAction     `json:"action"`
	TableName string          `json:"table_name"`
	RecordID  string          `json:"record_id"`
	OldData   json.RawMessage `json:"old_data,omitempty"`
	NewData   json.RawMessage `json:"new_data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
