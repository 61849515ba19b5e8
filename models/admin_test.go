package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminValidateCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	assert.NoError(t, err)
	a := Admin{Email: "admin@devevent.io", PasswordHash: string(hash)}

	assert.NoError(t, a.ValidateCredentials(" Admin@DevEvent.io ", "hunter2"))
	assert.ErrorIs(t, a.ValidateCredentials("admin@devevent.io", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, a.ValidateCredentials("other@devevent.io", "hunter2"), ErrInvalidCredentials)

	assert.False(t, Admin{Email: "admin@devevent.io"}.Configured())
	assert.ErrorIs(t, Admin{}.ValidateCredentials("", ""), ErrInvalidCredentials)
}
