package handlers

import (
	"net/http"
	"strconv"
)

// AuditLogsList returns the most recent audit entries, newest first.
func (a *App) AuditLogsList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	entries, err := a.AuditLogs.List(r.Context(), limit)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": entries})
}
