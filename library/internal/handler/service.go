package handler

import (
	"context"

	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/library/internal/permission"
	"github.com/Astemirdum/library-borrow/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var (
	_ SlipService    = (*service.SlipService)(nil)
	_ CatalogService = (*service.CatalogService)(nil)
	_ AccountService = (*service.AccountService)(nil)
)

type SlipService interface {
	CreateSlip(ctx context.Context, userID int64, bookIDs []int64) (model.SlipResult, error)
	UpdateSlipItems(ctx context.Context, userID, slipID int64, bookIDs []int64) (model.SlipResult, error)
	SubmitSlip(ctx context.Context, userID, slipID int64) (model.SlipResult, error)
	DeleteSlip(ctx context.Context, userID, slipID int64) error
	ListSlips(ctx context.Context, userID int64) ([]model.SlipSummary, error)
	GetSlip(ctx context.Context, userID, slipID int64) (model.SlipDetail, error)
}

type CatalogService interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (int64, error)
	UpdateBook(ctx context.Context, id int64, patch model.BookPatch) error
	DeleteBook(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (int64, error)
	UpdateCategory(ctx context.Context, id int64, patch model.CategoryPatch) error
	DeleteCategory(ctx context.Context, id int64) error
}

type AccountService interface {
	Register(ctx context.Context, req model.RegisterRequest) (int64, error)
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	Authenticate(ctx context.Context, token string) (permission.Principal, error)

	CreateUser(ctx context.Context, req model.CreateUserRequest) (int64, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	UpdateUser(ctx context.Context, id int64, patch model.UserPatch) error
	DeleteUser(ctx context.Context, actorID, id int64) error
	ListRoles(ctx context.Context) ([]model.Role, error)
}
