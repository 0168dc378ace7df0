package login

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/app/system/auth"
	"github.com/dalemusser/portfolio/internal/app/system/authutil"
	"github.com/dalemusser/portfolio/internal/domain/models"
)

// CredentialStore looks users up for verification. The returned user must
// include the password hash.
type CredentialStore interface {
	GetByEmailWithPassword(ctx context.Context, email string) (*models.User, error)
}

// Both wrap apierr.ErrInvalidCredentials, so clients cannot tell an unknown
// email from a wrong password. The distinction only reaches the audit log.
var (
	errUnknownEmail  = fmt.Errorf("unknown email: %w", apierr.ErrInvalidCredentials)
	errWrongPassword = fmt.Errorf("wrong password: %w", apierr.ErrInvalidCredentials)
)

// Authenticator verifies email/password credentials.
type Authenticator struct {
	users CredentialStore
}

// NewAuthenticator returns an Authenticator backed by users.
func NewAuthenticator(users CredentialStore) *Authenticator {
	return &Authenticator{users: users}
}

// Authenticate returns the identity to embed in a session token, or an
// error wrapping apierr.ErrInvalidCredentials. It never returns the hash.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (auth.Identity, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return auth.Identity{}, errUnknownEmail
	}

	u, err := a.users.GetByEmailWithPassword(ctx, email)
	if err != nil {
		if apierr.IsNotFound(err) {
			return auth.Identity{}, errUnknownEmail
		}
		return auth.Identity{}, fmt.Errorf("load user: %w", err)
	}
	if !authutil.CheckPassword(password, u.Password) {
		return auth.Identity{}, errWrongPassword
	}

	return auth.Identity{
		ID:           u.ID.Hex(),
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
	}, nil
}

// failureReason names a rejected login for the audit log.
func failureReason(err error) string {
	switch {
	case errors.Is(err, errUnknownEmail):
		return "user_not_found"
	case errors.Is(err, errWrongPassword):
		return "wrong_password"
	}
	return "error"
}
