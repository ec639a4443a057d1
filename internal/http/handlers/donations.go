package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zakatku-backend/internal/domain"
	"zakatku-backend/internal/middleware"
	"zakatku-backend/internal/service"
)

// DonationsCreate records a donation through the online path.
func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var in service.DonationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	if in.CollectorID == "" {
		in.CollectorID = actor.UserID
	}
	d, err := a.Donations.Create(r.Context(), actor, in)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, d)
}

// DonationsList returns the caller's donations, or another collector's when
// an admin passes ?juru_pungut_id=.
func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	collectorID := middleware.UserIDFromContext(r.Context())
	if q := r.URL.Query().Get("juru_pungut_id"); q != "" {
		if middleware.RoleFromContext(r.Context()) != string(domain.UserRoleAdmin) {
			a.error(w, http.StatusForbidden, "forbidden", "cannot list another collector's donations")
			return
		}
		collectorID = q
	}
	items, err := a.Donations.ListByCollector(r.Context(), collectorID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

type donationPatchRequest struct {
	DonorName *string               `json:"nama_donatur"`
	Category  *domain.ZakatCategory `json:"jenis_zakat"`
	Amount    *int64                `json:"nominal"`
	Method    *domain.PaymentMethod `json:"metode_pembayaran"`
	DonorID   *string               `json:"donatur_id"`
}

// DonationsUpdate amends a record while its edit window is open.
func (a *App) DonationsUpdate(w http.ResponseWriter, r *http.Request) {
	var req donationPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	patch := domain.DonationPatch{
		DonorName: req.DonorName,
		Category:  req.Category,
		Amount:    req.Amount,
		Method:    req.Method,
		DonorID:   req.DonorID,
	}
	d, err := a.Donations.Update(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, d)
}

// DonationsDelete soft deletes a record.
func (a *App) DonationsDelete(w http.ResponseWriter, r *http.Request) {
	err := a.Donations.SoftDelete(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DonationsLock freezes one record.
func (a *App) DonationsLock(w http.ResponseWriter, r *http.Request) {
	err := a.Donations.Lock(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"locked": true})
}

// DonationsLockToday locks every open donation dated today.
func (a *App) DonationsLockToday(w http.ResponseWriter, r *http.Request) {
	n, err := a.Donations.LockToday(r.Context(), middleware.ActorFromContext(r.Context()))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]int{"locked": n})
}
