package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/library/internal/repository"
)

type CatalogService struct {
	log  *zap.Logger
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{
		log:  log.Named("catalog"),
		repo: repo,
	}
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]model.Book, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id int64) (model.Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return model.Book{}, errs.Wrapf(errs.ErrNotFound, "book %d not found", id)
	}
	return book, err
}

func (s *CatalogService) CreateBook(ctx context.Context, req model.CreateBookRequest) (int64, error) {
	id, err := s.repo.CreateBook(ctx, req)
	if err != nil {
		return 0, err
	}
	s.log.Info("book created", zap.Int64("book_id", id), zap.String("title", req.Title))
	return id, nil
}

func (s *CatalogService) UpdateBook(ctx context.Context, id int64, patch model.BookPatch) error {
	if patch.Empty() {
		return errs.Wrapf(errs.ErrValidation, "no fields provided for update")
	}
	err := s.repo.UpdateBook(ctx, id, patch)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Wrapf(errs.ErrNotFound, "book %d not found", id)
	}
	return err
}

// DeleteBook fails with a conflict while any borrowing slip lists the book.
func (s *CatalogService) DeleteBook(ctx context.Context, id int64) error {
	err := s.repo.DeleteBook(ctx, id)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return errs.Wrapf(errs.ErrNotFound, "book %d not found", id)
	case errors.Is(err, errs.ErrInUse):
		return errs.Wrapf(errs.ErrInUse, "cannot delete book %d because it is referenced in borrowing slips", id)
	case err != nil:
		return err
	}
	s.log.Info("book deleted", zap.Int64("book_id", id))
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []model.Category{}
	}
	return cats, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (int64, error) {
	return s.repo.CreateCategory(ctx, req)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, patch model.CategoryPatch) error {
	if patch.Empty() {
		return errs.Wrapf(errs.ErrValidation, "no fields provided for update")
	}
	err := s.repo.UpdateCategory(ctx, id, patch)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Wrapf(errs.ErrNotFound, "category %d not found", id)
	}
	return err
}

// DeleteCategory fails with a conflict while the category still has books.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.repo.DeleteCategory(ctx, id)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return errs.Wrapf(errs.ErrNotFound, "category %d not found", id)
	case errors.Is(err, errs.ErrInUse):
		return errs.Wrapf(errs.ErrInUse, "cannot delete category %d because it contains books", id)
	}
	return err
}
