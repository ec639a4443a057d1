// Package report builds read-side projections over already-fetched data.
package report

import (
	"sort"

	"zakatku-backend/internal/domain"
)

// CollectorSummary aggregates one collector's undeleted donations.
type CollectorSummary struct {
	CollectorID string `json:"juru_pungut_id"`
	Name        string `json:"nama"`
	Total       int64  `json:"total"`
	Count       int    `json:"jumlah"`
}

// SummarizeByCollector joins donations with users in memory and groups totals
// per collector, largest total first. Soft-deleted donations are excluded.
// Both inputs are plain slices so the projection tests without a store.
func SummarizeByCollector(donations []domain.Donation, users []domain.User) []CollectorSummary {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	grouped := make(map[string]*CollectorSummary)
	var order []string
	for _, d := range donations {
		if d.IsDeleted || d.CollectorID == "" {
			continue
		}
		s, ok := grouped[d.CollectorID]
		if !ok {
			s = &CollectorSummary{CollectorID: d.CollectorID, Name: names[d.CollectorID]}
			grouped[d.CollectorID] = s
			order = append(order, d.CollectorID)
		}
		s.Total += d.Amount
		s.Count++
	}

	out := make([]CollectorSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *grouped[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}
