package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"zakatku-backend/internal/middleware"
	"zakatku-backend/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userDTO   `json:"user"`
}

type userDTO struct {
	ID       string `json:"id"`
	Name     string `json:"nama"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// Login checks credentials and issues a bearer token whose lifetime matches
// the session TTL.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email and password required")
		return
	}

	u, err := a.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.domainError(w, err)
		return
	}

	ttl := a.SessionTTL
	if ttl == 0 {
		ttl = session.DefaultTTL
	}
	sess := session.New(*u, ttl, time.Now())
	token, err := middleware.SignJWT(a.JWTSecret, u, ttl)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}

	a.json(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		User: userDTO{
			ID:       u.ID,
			Name:     u.Name,
			Email:    u.Email,
			Role:     string(u.Role),
			IsActive: u.IsActive,
		},
	})
}
