package repository

import (
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
)

const (
	slipItemUniqueConstraint = "borrowing_slip_items_slip_book_key"
	usernameUniqueConstraint = "members_username_key"
	categoryUniqueConstraint = "categories_name_key"
)

var uniqueMessages = map[string]string{
	usernameUniqueConstraint: "username already exists",
	categoryUniqueConstraint: "category name already exists",
}

// translate turns store errors into the error taxonomy so raw Postgres
// codes never reach callers. onForeignKey is returned for FK violations;
// nil means a generic conflict.
func translate(err error, onForeignKey error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == slipItemUniqueConstraint {
			return errs.Wrapf(errs.ErrDuplicateItem, "book already added to the slip")
		}
		if msg, ok := uniqueMessages[pgErr.ConstraintName]; ok {
			return errs.Wrapf(errs.ErrConflict, "%s", msg)
		}
		return errs.Wrapf(errs.ErrConflict, "already exists")
	case pgerrcode.ForeignKeyViolation:
		if onForeignKey != nil {
			return onForeignKey
		}
		return errs.Wrapf(errs.ErrInUse, "entity is referenced by other records")
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return errs.Wrapf(errs.ErrValidation, "value violates constraint %s", pgErr.ConstraintName)
	case pgerrcode.LockNotAvailable, pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return errs.Wrapf(errs.ErrConflict, "concurrent update, retry the request")
	}
	return err
}
