package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stemsi/classroom-backend/internal/adminsite"
)

func TestSelectBuilderSearchSharesPlaceholder(t *testing.T) {
	var b selectBuilder
	b.eq("u.user_class_id", 3)
	b.search("ada", []string{"email", "first_name", "unknown"}, userColumns)

	want := " WHERE u.user_class_id = $1 AND (u.email ILIKE $2 OR u.first_name ILIKE $2)"
	if got := b.whereClause(); got != want {
		t.Errorf("where = %q\nwant   %q", got, want)
	}
	if len(b.args) != 2 || b.args[1] != "%ada%" {
		t.Errorf("args = %v", b.args)
	}
	if got := b.page(10, 20); got != " LIMIT $3 OFFSET $4" {
		t.Errorf("page = %q", got)
	}
}

func TestSelectBuilderBlankSearchIsNoop(t *testing.T) {
	var b selectBuilder
	b.search("   ", []string{"email"}, userColumns)
	if b.whereClause() != "" || len(b.args) != 0 {
		t.Errorf("blank search added terms: %q %v", b.whereClause(), b.args)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Errorf("escapeLike = %q", got)
	}
}

func TestOrderClause(t *testing.T) {
	got := orderClause([]adminsite.OrderField{
		{Field: "created_at", Desc: true},
		{Field: "password_hash"},
	}, assignmentColumns, "a.id")
	if got != " ORDER BY a.created_at DESC, a.id ASC" {
		t.Errorf("order = %q", got)
	}

	got = orderClause([]adminsite.OrderField{{Field: "id", Desc: true}}, assignmentColumns, "a.id")
	if got != " ORDER BY a.id DESC" {
		t.Errorf("order with pk = %q", got)
	}
}

func TestTranslate(t *testing.T) {
	if !errors.Is(translate(pgx.ErrNoRows, nil), ErrNotFound) {
		t.Error("ErrNoRows should map to ErrNotFound")
	}

	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation})
	if !errors.Is(translate(unique, ErrDuplicateEmail), ErrDuplicateEmail) {
		t.Error("unique violation should map to the given sentinel")
	}

	fk := &pgconn.PgError{Code: pgForeignKeyViolation}
	if !errors.Is(translate(fk, ErrDuplicateEmail), ErrInvalidReference) {
		t.Error("fk violation should map to ErrInvalidReference")
	}

	check := &pgconn.PgError{Code: pgCheckViolation}
	if !errors.Is(translate(check, nil), ErrConstraint) {
		t.Error("check violation should map to ErrConstraint")
	}

	other := errors.New("boom")
	if translate(other, nil) != other {
		t.Error("unrelated errors must pass through")
	}
}
