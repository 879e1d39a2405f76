package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
)

func (r *repository) InTx(ctx context.Context, fn func(tx SlipTx) error) error {
	acqCtx, cancel := context.WithTimeout(ctx, r.acquireTimeout)
	conn, err := r.db.Acquire(acqCtx)
	timedOut := acqCtx.Err() != nil && ctx.Err() == nil
	cancel()
	if err != nil {
		if timedOut {
			r.log.Warn("connection pool exhausted", zap.Duration("timeout", r.acquireTimeout))
			return errs.Wrapf(errs.ErrUnavailable, "no free database connection")
		}
		return errors.Wrap(err, "acquire connection")
	}
	defer conn.Release()

	err = pgx.BeginTxFunc(ctx, conn, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(&slipTx{q: tx})
	})
	return translate(err, nil)
}

func selectSlipSummaries() sq.SelectBuilder {
	return qb.Select("s.id", "s.user_id", "s.status", "s.created_at", "s.submitted_at", "count(i.id) as item_count").
		From(slipsTableName + " s").
		LeftJoin(fmt.Sprintf("%s i on i.slip_id = s.id", slipItemsTableName)).
		GroupBy("s.id")
}

func (r *repository) ListSlips(ctx context.Context, userID int64) ([]model.SlipSummary, error) {
	query, args, err := selectSlipSummaries().
		Where(sq.Eq{"s.user_id": userID}).
		OrderBy("s.created_at desc", "s.id desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	slips, err := collectAll[model.SlipSummary](ctx, r.db, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list slips")
	}
	return slips, nil
}

func (r *repository) GetSlip(ctx context.Context, slipID int64) (model.SlipSummary, error) {
	query, args, err := selectSlipSummaries().Where(sq.Eq{"s.id": slipID}).ToSql()
	if err != nil {
		return model.SlipSummary{}, err
	}
	slip, err := collectOne[model.SlipSummary](ctx, r.db, query, args...)
	if err != nil {
		return model.SlipSummary{}, translate(err, nil)
	}
	return slip, nil
}

func (r *repository) ListSlipItems(ctx context.Context, slipID int64) ([]model.SlipItem, error) {
	query, args, err := qb.Select("i.id", "i.slip_id", "i.book_id", "b.title", "b.author").
		From(slipItemsTableName + " i").
		Join(fmt.Sprintf("%s b on b.id = i.book_id", booksTableName)).
		Where(sq.Eq{"i.slip_id": slipID}).
		OrderBy("i.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	items, err := collectAll[model.SlipItem](ctx, r.db, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list slip items")
	}
	return items, nil
}

type slipTx struct {
	q querier
}

func (t *slipTx) BookExists(ctx context.Context, bookID int64) (bool, error) {
	return exists(ctx, t.q, booksTableName, bookID, "for key share")
}

func (t *slipTx) CreateSlip(ctx context.Context, userID int64, createdAt time.Time) (int64, error) {
	query, args, err := qb.Insert(slipsTableName).
		Columns("user_id", "status", "created_at").
		Values(userID, model.StatusDraft, createdAt).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := t.q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, translate(err, errs.ErrForbidden)
	}
	return id, nil
}

func (t *slipTx) LockSlip(ctx context.Context, slipID int64) (model.Slip, error) {
	query, args, err := qb.Select("id", "user_id", "status", "created_at", "submitted_at").
		From(slipsTableName).
		Where(sq.Eq{"id": slipID}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return model.Slip{}, err
	}
	slip, err := collectOne[model.Slip](ctx, t.q, query, args...)
	if err != nil {
		return model.Slip{}, translate(err, nil)
	}
	return slip, nil
}

func (t *slipTx) AddSlipItem(ctx context.Context, slipID, bookID int64) error {
	query, args, err := qb.Insert(slipItemsTableName).
		Columns("slip_id", "book_id").
		Values(slipID, bookID).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := t.q.Exec(ctx, query, args...); err != nil {
		return translate(err, errs.BookReference(bookID))
	}
	return nil
}

func (t *slipTx) ClearSlipItems(ctx context.Context, slipID int64) error {
	query, args, err := qb.Delete(slipItemsTableName).Where(sq.Eq{"slip_id": slipID}).ToSql()
	if err != nil {
		return err
	}
	_, err = t.q.Exec(ctx, query, args...)
	return translate(err, nil)
}

func (t *slipTx) CountSlipItems(ctx context.Context, slipID int64) (int, error) {
	query, args, err := qb.Select("count(*)").From(slipItemsTableName).Where(sq.Eq{"slip_id": slipID}).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := t.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count slip items")
	}
	return n, nil
}

func (t *slipTx) SetSlipStatus(ctx context.Context, slipID int64, status model.SlipStatus, submittedAt *time.Time) error {
	query, args, err := qb.Update(slipsTableName).
		Set("status", status).
		Set("submitted_at", submittedAt).
		Where(sq.Eq{"id": slipID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := t.q.Exec(ctx, query, args...)
	if err != nil {
		return translate(err, nil)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteSlip removes the slip; items go with it through ON DELETE CASCADE.
func (t *slipTx) DeleteSlip(ctx context.Context, slipID int64) error {
	query, args, err := qb.Delete(slipsTableName).Where(sq.Eq{"id": slipID}).ToSql()
	if err != nil {
		return err
	}
	tag, err := t.q.Exec(ctx, query, args...)
	if err != nil {
		return translate(err, nil)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
