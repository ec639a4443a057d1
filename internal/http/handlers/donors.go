package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"zakatku-backend/internal/middleware"
)

// DonorsList returns the donor registry, optionally filtered by ?q=.
func (a *App) DonorsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if keyword := q.Get("q"); keyword != "" {
		limit := 20
		if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
			limit = v
		}
		items, err := a.Donors.Search(r.Context(), keyword, limit)
		if err != nil {
			a.domainError(w, err)
			return
		}
		a.json(w, http.StatusOK, map[string]any{"items": items})
		return
	}
	items, err := a.Donors.List(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

type donorUpdateRequest struct {
	Name    string `json:"nama"`
	Address string `json:"alamat"`
	Phone   string `json:"no_hp"`
}

// DonorsUpdate edits a donor's contact details.
func (a *App) DonorsUpdate(w http.ResponseWriter, r *http.Request) {
	var req donorUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "nama required")
		return
	}
	d, err := a.Donors.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Address, req.Phone)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, d)
}

// DonorsDelete soft deletes a donor.
func (a *App) DonorsDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Donors.SoftDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DonorsImport ingests a CSV upload and upserts donors by name and address.
func (a *App) DonorsImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "file field required")
		return
	}
	defer file.Close()

	result, err := a.Donors.ImportCSV(r.Context(), middleware.ActorFromContext(r.Context()), file)
	if err != nil {
		if strings.HasPrefix(err.Error(), "import csv") {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, result)
}
