package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/library/internal/permission"
)

type CatalogRepository interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	BookExists(ctx context.Context, id int64) (bool, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (int64, error)
	UpdateBook(ctx context.Context, id int64, patch model.BookPatch) error
	DeleteBook(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (int64, error)
	UpdateCategory(ctx context.Context, id int64, patch model.CategoryPatch) error
	DeleteCategory(ctx context.Context, id int64) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, username, passwordHash string, roleID int64) (int64, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id int64, patch model.UserPatch) error
	DeleteUser(ctx context.Context, id int64) error

	ListRoles(ctx context.Context) ([]model.Role, error)
	GetRole(ctx context.Context, id int64) (model.Role, error)
	GetRoleByName(ctx context.Context, name string) (model.Role, error)
	GetPrincipal(ctx context.Context, userID int64) (permission.Principal, error)
}

type SlipRepository interface {
	// InTx runs fn in one transaction: it commits when fn returns nil and
	// rolls back every statement otherwise.
	InTx(ctx context.Context, fn func(tx SlipTx) error) error
	ListSlips(ctx context.Context, userID int64) ([]model.SlipSummary, error)
	GetSlip(ctx context.Context, slipID int64) (model.SlipSummary, error)
	ListSlipItems(ctx context.Context, slipID int64) ([]model.SlipItem, error)
}

// SlipTx is the set of statements a slip mutation may run inside InTx.
type SlipTx interface {
	// BookExists takes a key-share lock so the book cannot be deleted
	// before the transaction ends.
	BookExists(ctx context.Context, bookID int64) (bool, error)
	CreateSlip(ctx context.Context, userID int64, createdAt time.Time) (int64, error)
	// LockSlip returns the slip row locked for update, or errs.ErrNotFound.
	LockSlip(ctx context.Context, slipID int64) (model.Slip, error)
	AddSlipItem(ctx context.Context, slipID, bookID int64) error
	ClearSlipItems(ctx context.Context, slipID int64) error
	CountSlipItems(ctx context.Context, slipID int64) (int, error)
	SetSlipStatus(ctx context.Context, slipID int64, status model.SlipStatus, submittedAt *time.Time) error
	DeleteSlip(ctx context.Context, slipID int64) error
}

type Repository interface {
	CatalogRepository
	UserRepository
	SlipRepository
}

type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	db             *pgxpool.Pool
	log            *zap.Logger
	acquireTimeout time.Duration
}

var _ Repository = (*repository)(nil)

func NewRepository(db *pgxpool.Pool, log *zap.Logger, acquireTimeout time.Duration) (*repository, error) {
	if acquireTimeout <= 0 {
		acquireTimeout = 3 * time.Second
	}
	return &repository{
		db:             db,
		log:            log.Named("repo"),
		acquireTimeout: acquireTimeout,
	}, nil
}

const (
	rolesTableName     = `roles`
	membersTableName   = `members`
	categoryTableName  = `categories`
	booksTableName     = `books`
	slipsTableName     = `borrowing_slips`
	slipItemsTableName = `borrowing_slip_items`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func collectOne[T any](ctx context.Context, q querier, query string, args ...any) (T, error) {
	var zero T
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return zero, err
	}
	defer rows.Close()
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
}

func collectAll[T any](ctx context.Context, q querier, query string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}
