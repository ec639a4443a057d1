package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"zakatku-backend/internal/domain"
	"zakatku-backend/internal/infra"
	"zakatku-backend/internal/service"
)

// App bundles the services the HTTP layer dispatches into.
type App struct {
	Donations  *service.DonationService
	Users      *service.UserService
	Donors     *service.DonorService
	AuditLogs  domain.AuditLogRepository
	Logger     infra.Logger
	JWTSecret  string
	SessionTTL time.Duration
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// domainError translates service-layer failures into HTTP responses.
func (a *App) domainError(w http.ResponseWriter, err error) {
	var open *service.OpenDonationsError
	var invalid validator.ValidationErrors
	switch {
	case errors.As(err, &invalid):
		a.error(w, http.StatusBadRequest, "bad_request", invalid.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "record not found")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	case errors.Is(err, domain.ErrInactiveAccount):
		a.error(w, http.StatusForbidden, "inactive_account", "account is deactivated")
	case errors.Is(err, domain.ErrLocked):
		a.error(w, http.StatusConflict, "locked", "record is locked")
	case errors.Is(err, domain.ErrAlreadyDeleted):
		a.error(w, http.StatusConflict, "deleted", "record is deleted")
	case errors.Is(err, domain.ErrEditWindowExpired):
		a.error(w, http.StatusConflict, "edit_window_expired", "edit window has expired")
	case errors.Is(err, domain.ErrEmailTaken):
		a.error(w, http.StatusConflict, "email_taken", "email already registered")
	case errors.As(err, &open):
		a.error(w, http.StatusConflict, "open_donations", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
