package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	userstore "github.com/dalemusser/portfolio/internal/app/store/users"
	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/app/system/authutil"
	"github.com/dalemusser/portfolio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PhoneLength is the exact length a phone number must have when given.
const PhoneLength = 10

// Validation messages returned to the client.
const (
	MsgNameRequired      = "Name is required"
	MsgInvalidEmail      = "Please enter a valid email address"
	MsgPhoneLength       = "Phone number must be exactly 10 characters"
	MsgEmailInUse        = "Email is already in use"
	MsgPasswordsRequired = "Old password, new password, and confirmation are required"
	MsgPasswordMismatch  = "New password and confirmation do not match"
	MsgPasswordTooShort  = "New password must be at least 6 characters"
)

// Store is the credential store surface the manager needs.
type Store interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetPasswordHash(ctx context.Context, id primitive.ObjectID) (string, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd userstore.ProfileUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

// Manager applies self-service profile and password changes.
type Manager struct {
	users Store
	hash  func(string) (string, error)
}

// NewManager returns a Manager hashing with bcrypt.
func NewManager(users Store) *Manager {
	return &Manager{users: users, hash: authutil.HashPassword}
}

// ProfileInput is the body of PATCH /api/admin/profile.
type ProfileInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// PasswordInput is the body of PATCH /api/admin/profile/update-password.
type PasswordInput struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate returns every field problem of in.
func (in ProfileInput) Validate() []string {
	var msgs []string
	if strings.TrimSpace(in.Name) == "" {
		msgs = append(msgs, MsgNameRequired)
	}
	if !authutil.IsValidEmail(strings.TrimSpace(in.Email)) {
		msgs = append(msgs, MsgInvalidEmail)
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" && utf8.RuneCountInString(phone) != PhoneLength {
		msgs = append(msgs, MsgPhoneLength)
	}
	return msgs
}

// Validate checks in without touching the store.
func (in PasswordInput) Validate() []string {
	if in.OldPassword == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return []string{MsgPasswordsRequired}
	}
	var msgs []string
	if in.NewPassword != in.ConfirmPassword {
		msgs = append(msgs, MsgPasswordMismatch)
	}
	if errors.Is(authutil.ValidatePassword(in.NewPassword), authutil.ErrPasswordTooShort) {
		msgs = append(msgs, MsgPasswordTooShort)
	}
	return msgs
}

// Get returns the user without secret fields.
func (m *Manager) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.users.GetByID(ctx, id)
}

// UpdateProfile validates in and writes it in one update. Any validation
// problem means nothing is written.
func (m *Manager) UpdateProfile(ctx context.Context, id primitive.ObjectID, in ProfileInput) (*models.User, error) {
	if err := apierr.Validation(in.Validate()); err != nil {
		return nil, err
	}
	u, err := m.users.UpdateProfile(ctx, id, userstore.ProfileUpdate{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return nil, apierr.Validation([]string{MsgEmailInUse})
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// UpdatePassword verifies the old password and stores the new one. The
// store bumps the token version in the same write.
func (m *Manager) UpdatePassword(ctx context.Context, id primitive.ObjectID, in PasswordInput) error {
	if err := apierr.Validation(in.Validate()); err != nil {
		return err
	}

	current, err := m.users.GetPasswordHash(ctx, id)
	if err != nil {
		return fmt.Errorf("load password: %w", err)
	}
	if !authutil.CheckPassword(in.OldPassword, current) {
		return apierr.ErrInvalidOldPassword
	}
	if authutil.CheckPassword(in.NewPassword, current) {
		return apierr.ErrPasswordUnchanged
	}

	hash, err := m.hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := m.users.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
