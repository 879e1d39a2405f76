package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
)

var bookColumns = []string{
	"b.id", "b.title", "b.author", "b.isbn", "b.publish_year", "b.publisher",
	"b.category_id", "c.name as category_name", "b.description", "b.quantity", "b.price::float8 as price",
}

func selectBooks() sq.SelectBuilder {
	return qb.Select(bookColumns...).
		From(booksTableName + " b").
		LeftJoin(fmt.Sprintf("%s c on b.category_id = c.id", categoryTableName))
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := selectBooks().OrderBy("b.id").ToSql()
	if err != nil {
		return nil, err
	}
	books, err := collectAll[model.Book](ctx, r.db, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list books")
	}
	return books, nil
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := selectBooks().Where(sq.Eq{"b.id": id}).Limit(1).ToSql()
	if err != nil {
		return model.Book{}, err
	}
	book, err := collectOne[model.Book](ctx, r.db, query, args...)
	if err != nil {
		return model.Book{}, translate(err, nil)
	}
	return book, nil
}

func (r *repository) BookExists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, booksTableName, id, "")
}

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (int64, error) {
	ok, err := exists(ctx, r.db, categoryTableName, req.CategoryID, "")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &errs.ReferenceError{Entity: "category", ID: req.CategoryID}
	}

	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "isbn", "publish_year", "publisher", "category_id", "description", "quantity", "price").
		Values(req.Title, req.Author, req.ISBN, req.PublishYear, req.Publisher, req.CategoryID, req.Description, *req.Quantity, *req.Price).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, translate(err, &errs.ReferenceError{Entity: "category", ID: req.CategoryID})
	}
	return id, nil
}

func (r *repository) UpdateBook(ctx context.Context, id int64, patch model.BookPatch) error {
	if patch.CategoryID != nil {
		ok, err := exists(ctx, r.db, categoryTableName, *patch.CategoryID, "")
		if err != nil {
			return err
		}
		if !ok {
			return &errs.ReferenceError{Entity: "category", ID: *patch.CategoryID}
		}
	}
	var onFK error
	if patch.CategoryID != nil {
		onFK = &errs.ReferenceError{Entity: "category", ID: *patch.CategoryID}
	}
	return r.update(ctx, booksTableName, id, patch.Fields(), onFK)
}

func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	return r.delete(ctx, booksTableName, id)
}

func (r *repository) ListCategories(ctx context.Context) ([]model.Category, error) {
	query, args, err := qb.Select("id", "name", "description").
		From(categoryTableName).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	categories, err := collectAll[model.Category](ctx, r.db, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

func (r *repository) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (int64, error) {
	query, args, err := qb.Insert(categoryTableName).
		Columns("name", "description").
		Values(req.Name, req.Description).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, translate(err, nil)
	}
	return id, nil
}

func (r *repository) UpdateCategory(ctx context.Context, id int64, patch model.CategoryPatch) error {
	return r.update(ctx, categoryTableName, id, patch.Fields(), nil)
}

func (r *repository) DeleteCategory(ctx context.Context, id int64) error {
	return r.delete(ctx, categoryTableName, id)
}

// update applies a typed patch to one row by id.
func (r *repository) update(ctx context.Context, table string, id int64, fields map[string]interface{}, onFK error) error {
	if len(fields) == 0 {
		return errs.Wrapf(errs.ErrValidation, "no fields provided for update")
	}
	query, args, err := qb.Update(table).
		SetMap(fields).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translate(err, onFK)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// delete removes one row by id; restrictive foreign keys surface as errs.ErrInUse.
func (r *repository) delete(ctx context.Context, table string, id int64) error {
	query, args, err := qb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translate(err, nil)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func exists(ctx context.Context, q querier, table string, id int64, lock string) (bool, error) {
	b := qb.Select("1").From(table).Where(sq.Eq{"id": id}).Limit(1)
	if lock != "" {
		b = b.Suffix(lock)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return false, err
	}
	var one int
	if err := q.QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(translate(err, nil), errs.ErrNotFound) {
			return false, nil
		}
		return false, errors.Wrapf(err, "exists %s", table)
	}
	return true, nil
}
