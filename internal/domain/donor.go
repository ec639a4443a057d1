package domain

import "time"

// Donor is a registered giver (donatur). Donations reference donors weakly:
// a donation may name a donor that was imported later, or none at all.
type Donor struct {
	ID        string    `json:"id"`
	Name      string    `json:"nama"`
	Address   string    `json:"alamat"`
	Phone     string    `json:"no_hp"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
