package model

import (
	"time"

	"github.com/google/uuid"
)

// Status of a membership
type Status string

const (
	StatusAktif    Status = "aktif"
	StatusNonaktif Status = "nonaktif"
	StatusPending  Status = "pending"
)

// Statuses lists every member status in display order
func Statuses() []Status {
	return []Status{StatusAktif, StatusNonaktif, StatusPending}
}

func (s Status) Valid() bool {
	switch s {
	case StatusAktif, StatusNonaktif, StatusPending:
		return true
	}
	return false
}

// Member - library member joined with its user account
type Member struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	MemberCode     string    `json:"member_code"`
	NIM            *string   `json:"nim"`
	Faculty        *string   `json:"faculty"`
	StudyProgram   *string   `json:"study_program"`
	Phone          *string   `json:"phone"`
	Address        *string   `json:"address"`
	JoinDate       time.Time `json:"join_date"`
	Status         Status    `json:"status"`
	ProfilePicture *string   `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// from users
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MemberFilter - filter object for the repository
type MemberFilter struct {
	Search       string
	Status       Status
	Faculty      string
	StudyProgram string
	Offset       int
	Limit        int
}

// NewMember - row pair written by Create
type NewMember struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	MemberCode   string
	NIM          *string
	Faculty      *string
	StudyProgram *string
	Phone        *string
	Address      *string
	JoinDate     time.Time
	Status       Status
	Picture      *string
}

// Patch - columns to change; nil means keep
type Patch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	MemberCode   *string
	NIM          *string
	Faculty      *string
	StudyProgram *string
	Phone        *string
	Address      *string
	JoinDate     *time.Time
	Status       *Status
	Picture      *string
}

// FilterOptions - dropdown values for the member list
type FilterOptions struct {
	Statuses      []Status `json:"statuses"`
	Faculties     []string `json:"faculties"`
	StudyPrograms []string `json:"study_programs"`
}

// Upload - profile picture received with a create or update
type Upload struct {
	Filename string
	Data     []byte
}
