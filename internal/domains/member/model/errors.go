package model

import "library-backend/internal/shared/apperror"

var (
	ErrMemberNotFound       = apperror.NotFound("Member not found")
	ErrInvalidMemberID      = apperror.Validation("Invalid member id")
	ErrInvalidStatus        = apperror.Validation("Invalid member status")
	ErrEmptyUpdate          = apperror.Validation("No fields to update")
	ErrInvalidPicture       = apperror.Validation("Profile picture must be a JPEG or PNG image up to 5MB")
	ErrEmailExists          = apperror.Conflict("Email already exists")
	ErrMemberCodeExists     = apperror.Conflict("Member code already exists")
	ErrMemberHasActiveLoans = apperror.Conflict("Member has active borrowings and cannot be deleted")
	ErrMemberHasHistory     = apperror.Conflict("Member has borrowing history and cannot be deleted")
)
