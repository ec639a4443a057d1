package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"zakatku-backend/internal/domain"
)

const usersTable = "users"

// bcryptCost matches the cost the legacy client hashed with.
const bcryptCost = 10

// OpenDonationsError rejects deactivating a collector who still has
// unlocked donations for the current day.
type OpenDonationsError struct {
	Count int
}

func (e *OpenDonationsError) Error() string {
	return fmt.Sprintf("user has %d unlocked donations today; lock them first", e.Count)
}

// UserInput is an account creation request.
type UserInput struct {
	Name     string `json:"nama" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserService manages collector accounts and login checks.
type UserService struct {
	users     domain.UserRepository
	donations domain.DonationRepository
	trail     auditTrail
	validate  *validator.Validate
	log       zerolog.Logger
	now       func() time.Time
}

// NewUserService wires the user operations.
func NewUserService(users domain.UserRepository, donations domain.DonationRepository, trail auditTrail, log zerolog.Logger) *UserService {
	return &UserService{
		users:     users,
		donations: donations,
		trail:     trail,
		validate:  validator.New(),
		log:       log,
		now:       time.Now,
	}
}

// Login verifies credentials and the active flag. The same error covers a
// missing account and a wrong password so the response does not reveal
// which one it was.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("login lookup: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	if !u.IsActive {
		return nil, domain.ErrInactiveAccount
	}
	return u, nil
}

// Create registers a new collector account with a hashed password.
func (s *UserService) Create(ctx context.Context, actor domain.Actor, in UserInput) (*domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("validate user: %w", err)
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.UserRoleCollector,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.recordUserSoft(ctx, actor, domain.AuditCreateUser, u.ID, nil, u)
	return u, nil
}

// ListCollectors returns every collector account, newest first.
func (s *UserService) ListCollectors(ctx context.Context) ([]domain.User, error) {
	return s.users.ListCollectors(ctx)
}

// UpdateProfile changes a user's name and email.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, id, name, email string) (*domain.User, error) {
	old, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.UpdateProfile(ctx, id, name, email)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.recordUserSoft(ctx, actor, domain.AuditUpdateUser, id, old, updated)
	return updated, nil
}

// Delete removes the account. Users are the one entity the system hard
// deletes; their donations keep the dangling collector id for the trail.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.recordUserSoft(ctx, actor, domain.AuditDeleteUser, id, map[string]string{"id": id}, nil)
	return nil
}

// Deactivate disables sign-in. Refused while the collector still has
// unlocked donations today so an open day cannot be orphaned.
func (s *UserService) Deactivate(ctx context.Context, actor domain.Actor, id string) error {
	now := s.now()
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	open, err := s.donations.CountUnlocked(ctx, id, startOfDay)
	if err != nil {
		return fmt.Errorf("count open donations: %w", err)
	}
	if open > 0 {
		return &OpenDonationsError{Count: open}
	}

	if err := s.users.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	s.recordUserSoft(ctx, actor, domain.AuditDeactivateUser, id,
		map[string]bool{"is_active": true}, map[string]bool{"is_active": false})
	return nil
}

// Activate re-enables sign-in.
func (s *UserService) Activate(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.users.SetActive(ctx, id, true); err != nil {
		return fmt.Errorf("activate user: %w", err)
	}
	s.recordUserSoft(ctx, actor, domain.AuditActivateUser, id,
		map[string]bool{"is_active": false}, map[string]bool{"is_active": true})
	return nil
}

// ChangePassword replaces the stored hash. The audit snapshot records only
// that the password changed, never hash material.
func (s *UserService) ChangePassword(ctx context.Context, actor domain.Actor, id, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("validate password: minimal 6 karakter")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, id, string(hash)); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	s.recordUserSoft(ctx, actor, domain.AuditChangePassword, id, nil, map[string]bool{"password_changed": true})
	return nil
}

func (s *UserService) recordUserSoft(ctx context.Context, actor domain.Actor, action domain.AuditAction, recordID string, oldState, newState any) {
	if err := s.trail.Record(ctx, actor, action, usersTable, recordID, oldState, newState); err != nil {
		s.log.Warn().Err(err).Str("record_id", recordID).Str("action", string(action)).Msg("audit entry not written")
	}
}
