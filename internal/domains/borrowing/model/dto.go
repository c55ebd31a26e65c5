package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"library-backend/internal/shared"
)

const DateLayout = "2006-01-02"

// CreateBorrowingRequest - POST /borrowings
type CreateBorrowingRequest struct {
	BookID     string `json:"book_id"`
	MemberID   string `json:"member_id"`
	BorrowDate string `json:"borrow_date"`
	DueDate    string `json:"due_date"`
}

func (r CreateBorrowingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required.Error("book_id is required"), is.UUID),
		validation.Field(&r.MemberID, validation.Required.Error("member_id is required"), is.UUID),
		validation.Field(&r.BorrowDate,
			validation.Required.Error("borrow_date is required"),
			validation.Date(DateLayout).Error("borrow_date must be YYYY-MM-DD"),
		),
		validation.Field(&r.DueDate,
			validation.Required.Error("due_date is required"),
			validation.Date(DateLayout).Error("due_date must be YYYY-MM-DD"),
		),
	)
}

// TransitionRequest - PUT /borrowings/:id/status. Only these two fields are accepted.
type TransitionRequest struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"admin_notes"`
}

// Notes returns the notes to store, nil when none were given
func (r TransitionRequest) Notes() *string {
	if r.AdminNotes == nil || strings.TrimSpace(*r.AdminNotes) == "" {
		return nil
	}
	n := strings.TrimSpace(*r.AdminNotes)
	return &n
}

// ListBorrowingsRequest - GET /borrowings and /borrowings/member/:memberId
type ListBorrowingsRequest struct {
	Search string
	Status string
	Page   int
	Limit  int
}

// ListBorrowingsResponse - paged listing
type ListBorrowingsResponse struct {
	Borrowings []Borrowing       `json:"borrowings"`
	Pagination shared.Pagination `json:"pagination"`
}
