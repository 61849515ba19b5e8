package models

import (
	"errors"

	"devevent/utils"
)

var ErrInvalidCredentials = errors.New("credentials invalid")

// Admin is the single account allowed to write events. It lives in
// configuration, not in the store.
type Admin struct {
	Email        string
	PasswordHash string
}

// Configured reports whether login can succeed at all.
func (a Admin) Configured() bool {
	return a.Email != "" && a.PasswordHash != ""
}

// ValidateCredentials compares the submitted email (case-insensitive) and the
// plain password against the account.
func (a Admin) ValidateCredentials(email, password string) error {
	if !a.Configured() || NormalizeEmail(email) != NormalizeEmail(a.Email) {
		return ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, a.PasswordHash) {
		return ErrInvalidCredentials
	}
	return nil
}
