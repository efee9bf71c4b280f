package model

import (
	"net/mail"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

// Account is the profile of a user of the admin dashboard or the mobile app.
// Credentials live in the hosted auth backend; ID is its subject identifier.
type Account struct {
	ID       types.UserID
	Email    string
	Name     string
	Role     types.Role
	PhotoURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the account is well-formed
func (a *Account) Validate() error {
	if err := a.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid account ID")
	}
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return goerr.Wrap(err, "invalid email", goerr.V("email", a.Email))
	}
	if strings.TrimSpace(a.Name) == "" {
		return goerr.New("account name is required", goerr.V("id", a.ID))
	}
	if !a.Role.IsValid() {
		return goerr.New("invalid role", goerr.V("role", a.Role))
	}
	return nil
}

// IsAdmin reports whether the account may manage master data and accounts
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == types.RoleAdmin
}
