package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// UserID is the subject identifier issued by the hosted auth backend
type UserID string

// Validate checks if the UserID is a UUID
func (u UserID) Validate() error {
	if u == "" {
		return goerr.New("user ID cannot be empty")
	}
	if _, err := uuid.Parse(string(u)); err != nil {
		return goerr.Wrap(err, "user ID must be a UUID", goerr.V("id", u))
	}
	return nil
}

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}
