package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"zakatku-backend/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenClaims carries the authenticated identity through the JWT payload.
type TokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type ctxKey string

const (
	userIDKey ctxKey = "user_id"
	emailKey  ctxKey = "email"
	roleKey   ctxKey = "role"
)

// SignJWT issues an HS256 token for the user, expiring after ttl.
func SignJWT(secret string, u *domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Email: u.Email,
		Role:  string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyJWT parses and validates a token produced by SignJWT.
func VerifyJWT(secret, token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AuthJWT rejects requests without a valid bearer token and stores the
// caller's identity on the request context.
func AuthJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization", http.StatusUnauthorized)
				return
			}
			claims, err := VerifyJWT(secret, parts[1])
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			ctx = context.WithValue(ctx, emailKey, claims.Email)
			ctx = context.WithValue(ctx, roleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows only callers whose token carries the given role.
// It must run after AuthJWT.
func RequireRole(role domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != string(role) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(roleKey).(string); ok {
		return v
	}
	return ""
}

// ActorFromContext builds the audit actor for the current request.
func ActorFromContext(ctx context.Context) domain.Actor {
	actor := domain.Actor{UserID: UserIDFromContext(ctx)}
	if v, ok := ctx.Value(emailKey).(string); ok {
		actor.Email = v
	}
	return actor
}

// ContextWithActor is a test helper for exercising handlers without the
// middleware chain.
func ContextWithActor(ctx context.Context, actor domain.Actor, role domain.UserRole) context.Context {
	ctx = context.WithValue(ctx, userIDKey, actor.UserID)
	ctx = context.WithValue(ctx, emailKey, actor.Email)
	return context.WithValue(ctx, roleKey, string(role))
}
