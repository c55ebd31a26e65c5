package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/borrowing/model"
	"library-backend/internal/shared/apperror"
)

const (
	lockBorrowing = `SELECT status, book_id FROM borrowings WHERE id = $1 FOR UPDATE`
	lockStatus    = `SELECT status FROM borrowings WHERE id = $1 FOR UPDATE`
	takeStock     = `UPDATE books SET stock = stock - 1, updated_at = NOW() WHERE id = $1 AND stock >= 1`
	restoreStock  = `UPDATE books SET stock = stock + 1, updated_at = NOW() WHERE id = $1`
)

func q(sql string) string { return regexp.QuoteMeta(sql) }

func newMock(t *testing.T) (pgxmock.PgxPoolIface, Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresRepository(mock)
}

func plan(t *testing.T, from, to model.Status, notes *string) model.TransitionPlan {
	t.Helper()
	p, err := model.PlanTransition(from, to, notes)
	require.NoError(t, err)
	return p
}

func TestApplyTransitionActivate(t *testing.T) {
	mock, repo := newMock(t)
	id, bookID := uuid.NewString(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockBorrowing)).WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"status", "book_id"}).AddRow("antri", bookID))
	mock.ExpectExec(q(takeStock)).WithArgs(bookID).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(q(`UPDATE borrowings SET status = $1, updated_at = NOW(), confirmed_at = NOW() WHERE id = $2`)).
		WithArgs("dipinjam", id).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.ApplyTransition(context.Background(), id, plan(t, model.StatusQueued, model.StatusActive, nil))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionOutOfStockRollsBack(t *testing.T) {
	mock, repo := newMock(t)
	id, bookID := uuid.NewString(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockBorrowing)).WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"status", "book_id"}).AddRow("antri", bookID))
	mock.ExpectExec(q(takeStock)).WithArgs(bookID).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.ApplyTransition(context.Background(), id, plan(t, model.StatusQueued, model.StatusActive, nil))
	assert.ErrorIs(t, err, model.ErrOutOfStock)
	assert.Equal(t, apperror.KindOutOfStock, apperror.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionStatusChangedUnderLock(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.NewString()

	// another request cancelled the borrowing after the plan was made
	mock.ExpectBegin()
	mock.ExpectQuery(q(lockBorrowing)).WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"status", "book_id"}).AddRow("dibatalkan", uuid.New()))
	mock.ExpectRollback()

	err := repo.ApplyTransition(context.Background(), id, plan(t, model.StatusQueued, model.StatusActive, nil))
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "dibatalkan")
	assert.Contains(t, err.Error(), "dipinjam")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionReturnRestoresStock(t *testing.T) {
	mock, repo := newMock(t)
	id, bookID := uuid.NewString(), uuid.New()
	notes := "kembali utuh"

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockBorrowing)).WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"status", "book_id"}).AddRow("dipinjam", bookID))
	mock.ExpectExec(q(restoreStock)).WithArgs(bookID).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(q(`UPDATE borrowings SET status = $1, updated_at = NOW(), return_date = NOW(), admin_notes = $2 WHERE id = $3`)).
		WithArgs("dikembalikan", notes, id).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.ApplyTransition(context.Background(), id, plan(t, model.StatusActive, model.StatusReturned, &notes))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionCancelLeavesStock(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.NewString()

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockBorrowing)).WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"status", "book_id"}).AddRow("antri", uuid.New()))
	mock.ExpectExec(q(`UPDATE borrowings SET status = $1, updated_at = NOW() WHERE id = $2`)).
		WithArgs("dibatalkan", id).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.ApplyTransition(context.Background(), id, plan(t, model.StatusQueued, model.StatusCancelled, nil))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionNotFound(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.NewString()

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockBorrowing)).WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"status", "book_id"}))
	mock.ExpectRollback()

	err := repo.ApplyTransition(context.Background(), id, plan(t, model.StatusQueued, model.StatusActive, nil))
	assert.ErrorIs(t, err, model.ErrBorrowingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRefusesActiveUnderLock(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.NewString()

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockStatus)).WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("dipinjam"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), id)
	assert.ErrorIs(t, err, model.ErrDeleteActive)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNonActive(t *testing.T) {
	for _, status := range []string{"dibatalkan", "dikembalikan", "antri"} {
		t.Run(status, func(t *testing.T) {
			mock, repo := newMock(t)
			id := uuid.NewString()

			mock.ExpectBegin()
			mock.ExpectQuery(q(lockStatus)).WithArgs(id).
				WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(status))
			mock.ExpectExec(q(`DELETE FROM borrowings WHERE id = $1`)).WithArgs(id).
				WillReturnResult(pgxmock.NewResult("DELETE", 1))
			mock.ExpectCommit()

			require.NoError(t, repo.Delete(context.Background(), id))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
