package model

import (
	"time"

	"github.com/google/uuid"
)

// Borrowing - a loan of one book copy to one member
type Borrowing struct {
	ID          uuid.UUID  `json:"id"`
	BookID      uuid.UUID  `json:"book_id"`
	MemberID    uuid.UUID  `json:"member_id"`
	BorrowDate  time.Time  `json:"borrow_date"`
	DueDate     time.Time  `json:"due_date"`
	ReturnDate  *time.Time `json:"return_date"`
	Status      Status     `json:"status"`
	AdminNotes  *string    `json:"admin_notes"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// display fields joined from books, members and users
	BookTitle    string  `json:"book_title"`
	BookAuthor   string  `json:"book_author"`
	BookISBN     *string `json:"book_isbn"`
	MemberName   string  `json:"member_name"`
	MemberEmail  string  `json:"member_email"`
	MemberCode   string  `json:"member_code"`
	NIM          *string `json:"nim"`
	Faculty      *string `json:"faculty"`
	StudyProgram *string `json:"study_program"`
	Phone        *string `json:"phone"`
}

// IsOverdue reports whether an active loan is past its due date at now
func (b *Borrowing) IsOverdue(now time.Time) bool {
	return b.Status == StatusActive && now.After(b.DueDate.Add(24*time.Hour))
}

// Filter - repository filter for listings
type Filter struct {
	Search   string
	Status   Status
	MemberID string
	Offset   int
	Limit    int
}

// NewBorrowing - row written by Create, always queued
type NewBorrowing struct {
	BookID     uuid.UUID
	MemberID   uuid.UUID
	BorrowDate time.Time
	DueDate    time.Time
}

// BookAvailability - what Create needs to know about a book
type BookAvailability struct {
	IsActive bool
	Stock    int
}
