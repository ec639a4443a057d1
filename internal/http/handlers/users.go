package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zakatku-backend/internal/middleware"
	"zakatku-backend/internal/service"
)

// UsersList returns every collector account.
func (a *App) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.Users.ListCollectors(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, userDTO{
			ID:       u.ID,
			Name:     u.Name,
			Email:    u.Email,
			Role:     string(u.Role),
			IsActive: u.IsActive,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// UsersCreate registers a collector account.
func (a *App) UsersCreate(w http.ResponseWriter, r *http.Request) {
	var in service.UserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	u, err := a.Users.Create(r.Context(), middleware.ActorFromContext(r.Context()), in)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, userDTO{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	})
}

type userUpdateRequest struct {
	Name  string `json:"nama"`
	Email string `json:"email"`
}

// UsersUpdate changes a user's name and email.
func (a *App) UsersUpdate(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" || req.Email == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "nama and email required")
		return
	}
	u, err := a.Users.UpdateProfile(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"), req.Name, req.Email)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, userDTO{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	})
}

// UsersDelete removes an account permanently.
func (a *App) UsersDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Users.Delete(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UsersDeactivate disables sign-in for a collector.
func (a *App) UsersDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := a.Users.Deactivate(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"is_active": false})
}

// UsersActivate re-enables sign-in.
func (a *App) UsersActivate(w http.ResponseWriter, r *http.Request) {
	if err := a.Users.Activate(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"is_active": true})
}

type passwordRequest struct {
	Password string `json:"password"`
}

// UsersPassword replaces a user's password.
func (a *App) UsersPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if len(req.Password) < 6 {
		a.error(w, http.StatusBadRequest, "bad_request", "password must be at least 6 characters")
		return
	}
	if err := a.Users.ChangePassword(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"), req.Password); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
