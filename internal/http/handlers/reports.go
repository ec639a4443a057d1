package handlers

import (
	"net/http"

	"zakatku-backend/pkg/rupiah"
)

// ReportsCollectors returns per-collector donation totals, largest first.
func (a *App) ReportsCollectors(w http.ResponseWriter, r *http.Request) {
	summaries, err := a.Donations.CollectorSummaries(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, map[string]any{
			"juru_pungut_id":  s.CollectorID,
			"nama":            s.Name,
			"jumlah":          s.Count,
			"total":           s.Total,
			"total_terformat": rupiah.Format(s.Total),
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
