package shared

import "library-backend/internal/shared/utils"

// Background task types handled by cmd/worker
const (
	TypeDeleteMemberPicture = "member:delete_picture"
)

// Context keys set by the auth middleware
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxUserRole  = "userRole"
	CtxRequestID = "request_id"
)

// Roles
const (
	RoleAdmin   = "admin"
	RolePetugas = "petugas" // library staff
	RoleAnggota = "anggota" // member
)

// DeletePicturePayload asks the worker to remove a stored profile picture
type DeletePicturePayload struct {
	Path   string `json:"path"`
	Reason string `json:"reason"` // superseded, member_deleted, rollback
}

// Pagination is embedded in every list payload
type Pagination struct {
	Total       int `json:"total"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
}

// Identity is the authenticated caller decoded from the bearer token
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewPagination fills the pagination block for a page of results
func NewPagination(total, page, limit int) Pagination {
	return Pagination{
		Total:       total,
		TotalPages:  utils.TotalPages(total, limit),
		CurrentPage: page,
		PerPage:     limit,
	}
}
