package domain

import "time"

// ZakatCategory enumerates the kinds of contribution a collector can record.
type ZakatCategory string

const (
	ZakatFitrah ZakatCategory = "zakat_fitrah"
	ZakatMaal   ZakatCategory = "zakat_maal"
	Infaq       ZakatCategory = "infaq"
	Sedekah     ZakatCategory = "sedekah"
)

// PaymentMethod enumerates how a donation was paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "tunai"
	PaymentTransfer PaymentMethod = "transfer"
)

// Donation is a single contribution recorded by a collector. Amounts are kept
// in whole rupiah (the smallest unit in circulation).
type Donation struct {
	ID          string        `json:"id"`
	DonorName   string        `json:"nama_donatur"`
	Category    ZakatCategory `json:"jenis_zakat"`
	Amount      int64         `json:"nominal"`
	Method      PaymentMethod `json:"metode_pembayaran"`
	CollectorID string        `json:"juru_pungut_id"`
	DonorID     *string       `json:"donatur_id,omitempty"`
	OccurredAt  time.Time     `json:"tanggal_donasi"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	IsLocked    bool          `json:"is_locked"`
	IsDeleted   bool          `json:"is_deleted"`
}

// DonationPatch carries the fields a collector may amend within the edit
// window. Nil fields are left untouched.
type DonationPatch struct {
	DonorName *string
	Category  *ZakatCategory
	Amount    *int64
	Method    *PaymentMethod
	DonorID   *string
}
