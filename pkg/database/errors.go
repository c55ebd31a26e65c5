package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

// Pool is what repositories need from *pgxpool.Pool
type Pool interface {
	DBTX
	TxBeginner
}

// PgErrorCode returns the SQLSTATE of err, or "" when it is not a server error
func PgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// ConstraintName returns the violated constraint, if any
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return PgErrorCode(err) == CodeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return PgErrorCode(err) == CodeForeignKeyViolation
}

func IsCheckViolation(err error) bool {
	return PgErrorCode(err) == CodeCheckViolation
}
