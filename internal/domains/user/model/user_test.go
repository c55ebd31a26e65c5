package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginRequestAcceptsInternalDomains(t *testing.T) {
	for _, email := range []string{"admin@lib.test", "anggota@perpus.kampus.local", "admin@example.com"} {
		req := LoginRequest{Email: email, Password: "rahasia123"}
		assert.NoError(t, req.Validate(), email)
	}

	assert.Error(t, LoginRequest{Email: "bukan-email", Password: "x"}.Validate())
	assert.Error(t, LoginRequest{Email: "", Password: "x"}.Validate())
}

func TestCreateUserRequestValidate(t *testing.T) {
	req := CreateUserRequest{Name: "Petugas", Email: "staff@perpus.kampus.local", Password: "rahasia123", Role: RoleAdmin}
	assert.NoError(t, req.Validate())

	bad := req
	bad.Email = "staff@"
	assert.Error(t, bad.Validate())

	bad = req
	bad.Role = Role("tamu")
	assert.Error(t, bad.Validate())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "admin@lib.test", NormalizeEmail("  Admin@Lib.TEST "))
}
