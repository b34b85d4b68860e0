package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrDuplicateClassName = errors.New("class with this name already exists")
	ErrInvalidReference   = errors.New("referenced record does not exist")
	ErrConstraint         = errors.New("value violates a check constraint")
)

// translate maps driver errors onto repository sentinels. onUnique is
// returned for unique violations; other errors pass through unchanged.
func translate(err error, onUnique error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if onUnique != nil {
				return onUnique
			}
		case pgForeignKeyViolation:
			return ErrInvalidReference
		case pgCheckViolation:
			return ErrConstraint
		}
	}
	return err
}

// affected turns a zero-row update or delete into ErrNotFound.
func affected(tag pgconn.CommandTag, err error, onUnique error) error {
	if err != nil {
		return translate(err, onUnique)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
