package model

import "library-backend/internal/shared/apperror"

var (
	ErrBookNotFound        = apperror.NotFound("Book not found")
	ErrInvalidBookID       = apperror.Validation("Invalid book id")
	ErrISBNAlreadyExists   = apperror.Conflict("ISBN already exists")
	ErrBookHasActiveLoans  = apperror.Conflict("Book has active borrowings and cannot be deleted")
	ErrBookHasHistory      = apperror.Conflict("Book has borrowing history and cannot be deleted")
	ErrEmptyUpdate         = apperror.Validation("No fields to update")
	ErrInvalidSearchParams = apperror.Validation("Invalid search parameters")
)
