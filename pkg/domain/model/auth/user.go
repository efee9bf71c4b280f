package auth

import (
	"context"

	"github.com/secmon-lab/hra/pkg/domain/types"
)

// AnonymousUserID is used when the server runs without authentication
const AnonymousUserID types.UserID = "00000000-0000-0000-0000-000000000000"

// User is the caller identified from a verified access token
type User struct {
	ID    types.UserID
	Email string
	Role  types.Role
}

// IsAdmin reports whether the caller may manage master data and accounts
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == types.RoleAdmin
}

// NewAnonymousUser returns the administrator identity used in no-auth mode
func NewAnonymousUser() *User {
	return &User{
		ID:    AnonymousUserID,
		Email: "anonymous@localhost",
		Role:  types.RoleAdmin,
	}
}

type ctxUserKey struct{}

// ContextWithUser stores the caller in ctx
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, user)
}

// UserFromContext returns the caller stored in ctx, or nil
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(ctxUserKey{}).(*User)
	return user
}
