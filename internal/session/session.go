// Package session models signed-in state as explicit values with their own
// expiry, so independent sessions can coexist without shared timers.
package session

import (
	"time"

	"zakatku-backend/internal/domain"
)

// DefaultTTL matches the 30-minute inactivity logout of the web client.
const DefaultTTL = 30 * time.Minute

// Session is the signed-in state handed back to the caller. Callers check
// Expired before trusting it; there is no background timer.
type Session struct {
	UserID    string
	Email     string
	Role      domain.UserRole
	ExpiresAt time.Time
}

// New creates a session for the user expiring ttl from now.
func New(u domain.User, ttl time.Duration, now time.Time) Session {
	return Session{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Touch returns a copy with the expiry slid forward, the equivalent of the
// activity-reset the web client performed on user input.
func (s Session) Touch(now time.Time, ttl time.Duration) Session {
	s.ExpiresAt = now.Add(ttl)
	return s
}

// Actor returns the audit actor for this session.
func (s Session) Actor() domain.Actor {
	return domain.Actor{UserID: s.UserID, Email: s.Email}
}
