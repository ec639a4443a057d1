package domain

import "time"

// DonationDraft is a donation captured on a device, before the Record Store
// has assigned it an identity. It is the payload staged in the offline queue.
type DonationDraft struct {
	DonorName   string        `json:"nama_donatur"`
	Category    ZakatCategory `json:"jenis_zakat"`
	Amount      int64         `json:"nominal"`
	Method      PaymentMethod `json:"metode_pembayaran"`
	CollectorID string        `json:"juru_pungut_id"`
	DonorID     *string       `json:"donatur_id,omitempty"`
	OccurredAt  time.Time     `json:"tanggal_donasi"`
}

// QueueItem wraps a draft with device-local bookkeeping. LocalID and SavedAt
// exist only on the capturing device and are stripped before submission.
type QueueItem struct {
	LocalID string        `json:"offline_id"`
	SavedAt time.Time     `json:"saved_at"`
	Draft   DonationDraft `json:"draft"`
}

// SyncResult summarizes one synchronization pass. Partial failure is a
// normal outcome, reported here rather than as an error.
type SyncResult struct {
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Message   string `json:"message"`
}

// ConnState enumerates the connectivity projection shown to the collector.
type ConnState string

const (
	ConnOffline     ConnState = "offline"
	ConnPendingSync ConnState = "pending_sync"
	ConnSynced      ConnState = "synced"
)

// ConnStatus pairs the connectivity state with the number of queued items.
type ConnStatus struct {
	State   ConnState `json:"state"`
	Pending int       `json:"pending"`
}
