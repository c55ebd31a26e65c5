package model

import (
	"fmt"

	"library-backend/internal/shared/apperror"
)

var (
	ErrBorrowingNotFound = apperror.NotFound("Borrowing not found")
	ErrInvalidID         = apperror.Validation("Invalid borrowing id")
	ErrInvalidStatus     = apperror.Validation("Invalid status")
	ErrInvalidTransition = apperror.InvalidTransition("Invalid status transition")
	ErrOutOfStock        = apperror.OutOfStock("Book is out of stock")
	ErrMemberIneligible  = apperror.Validation("Member invalid or inactive")
	ErrBookUnavailable   = apperror.Validation("Book unavailable for borrowing")
	ErrDueBeforeBorrow   = apperror.Validation("due_date must not be before borrow_date")
	ErrDeleteActive      = apperror.Conflict("Cannot delete a borrowing that is currently active")
	ErrNotOwnMember      = apperror.Forbidden("You can only view your own borrowings")
)

// InvalidTransitionError names both states
func InvalidTransitionError(from, to Status) error {
	msg := fmt.Sprintf("Cannot change status from %s to %s", from, to)
	if from.Terminal() {
		msg += fmt.Sprintf(" (%s is final)", from)
	}
	return apperror.Wrap(ErrInvalidTransition, msg)
}
