package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateMemberRequestEmail(t *testing.T) {
	req := CreateMemberRequest{
		Name:       "Siti Aminah",
		Email:      " Siti@Perpus.Kampus.Local ",
		Password:   "rahasia",
		MemberCode: "AG-001",
		JoinDate:   "2024-02-01",
	}
	req.Normalize()
	assert.Equal(t, "siti@perpus.kampus.local", req.Email)
	assert.NoError(t, req.Validate())

	req.Email = "siti@"
	assert.Error(t, req.Validate())
}

func TestUpdateMemberRequestEmail(t *testing.T) {
	email := "budi@lib.test"
	assert.NoError(t, UpdateMemberRequest{Email: &email}.Validate())

	bad := "budi"
	assert.Error(t, UpdateMemberRequest{Email: &bad}.Validate())

	empty := ""
	assert.Error(t, UpdateMemberRequest{Email: &empty}.Validate())
	assert.NoError(t, UpdateMemberRequest{}.Validate())
}
