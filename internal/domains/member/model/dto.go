package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"library-backend/internal/shared"
)

const DateLayout = "2006-01-02"

// ListMembersRequest - GET /members query
type ListMembersRequest struct {
	Search       string
	Status       string
	Faculty      string
	StudyProgram string
	Page         int
	Limit        int
}

// CreateMemberRequest - accepted as JSON or multipart form
type CreateMemberRequest struct {
	Name         string `json:"name" form:"name"`
	Email        string `json:"email" form:"email"`
	Password     string `json:"password" form:"password"`
	MemberCode   string `json:"member_code" form:"member_code"`
	NIM          string `json:"nim" form:"nim"`
	Faculty      string `json:"faculty" form:"faculty"`
	StudyProgram string `json:"study_program" form:"study_program"`
	Phone        string `json:"phone" form:"phone"`
	Address      string `json:"address" form:"address"`
	JoinDate     string `json:"join_date" form:"join_date"`
	Status       string `json:"status" form:"status"`
}

func (r *CreateMemberRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.MemberCode = strings.TrimSpace(r.MemberCode)
	r.JoinDate = strings.TrimSpace(r.JoinDate)
	r.Status = strings.TrimSpace(r.Status)
}

func (r CreateMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required.Error("email is required"), is.EmailFormat),
		validation.Field(&r.Password, validation.Required.Error("password is required"), validation.Length(6, 128)),
		validation.Field(&r.MemberCode, validation.Required.Error("member_code is required"), validation.Length(1, 50)),
		validation.Field(&r.NIM, validation.Length(0, 50)),
		validation.Field(&r.Phone, validation.Length(0, 30)),
		validation.Field(&r.JoinDate, validation.Date(DateLayout).Error("join_date must be YYYY-MM-DD")),
		validation.Field(&r.Status, validation.By(validStatus)),
	)
}

// UpdateMemberRequest - explicit patch, nil fields are left unchanged
type UpdateMemberRequest struct {
	Name         *string `json:"name" form:"name"`
	Email        *string `json:"email" form:"email"`
	Password     *string `json:"password" form:"password"`
	MemberCode   *string `json:"member_code" form:"member_code"`
	NIM          *string `json:"nim" form:"nim"`
	Faculty      *string `json:"faculty" form:"faculty"`
	StudyProgram *string `json:"study_program" form:"study_program"`
	Phone        *string `json:"phone" form:"phone"`
	Address      *string `json:"address" form:"address"`
	JoinDate     *string `json:"join_date" form:"join_date"`
	Status       *string `json:"status" form:"status"`
}

func (r UpdateMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty.Error("name cannot be empty"), validation.Length(2, 100)),
		validation.Field(&r.Email, validation.NilOrNotEmpty.Error("email cannot be empty"), is.EmailFormat),
		validation.Field(&r.Password, validation.NilOrNotEmpty.Error("password cannot be empty"), validation.Length(6, 128)),
		validation.Field(&r.MemberCode, validation.NilOrNotEmpty.Error("member_code cannot be empty"), validation.Length(1, 50)),
		validation.Field(&r.JoinDate, validation.Date(DateLayout).Error("join_date must be YYYY-MM-DD")),
		validation.Field(&r.Status, validation.By(validStatus)),
	)
}

// IsEmpty reports whether no field was sent
func (r UpdateMemberRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Password == nil && r.MemberCode == nil &&
		r.NIM == nil && r.Faculty == nil && r.StudyProgram == nil && r.Phone == nil &&
		r.Address == nil && r.JoinDate == nil && r.Status == nil
}

func validStatus(v interface{}) error {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case *string:
		if t == nil {
			return nil
		}
		s = *t
	}
	if s == "" || Status(s).Valid() {
		return nil
	}
	return validation.NewError("validation_member_status", "status must be aktif, nonaktif or pending")
}

// ParseDate parses a YYYY-MM-DD value; blank yields the zero time
func ParseDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ListMembersResponse - payload of GET /members
type ListMembersResponse struct {
	Members    []Member          `json:"members"`
	Pagination shared.Pagination `json:"pagination"`
}

// CreateMemberResponse - payload of POST /members
type CreateMemberResponse struct {
	ID string `json:"id"`
}
