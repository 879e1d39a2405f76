package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-borrow/library/internal/model"
)

// ListBooks godoc
// @Summary  List books
// @Tags     books
// @Security BearerAuth
// @Produce  json
// @Success  200 {array}  model.Book
// @Failure  403 {object} errs.Response
// @Router   /books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	books, err := h.catalog.ListBooks(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary  Get a book
// @Tags     books
// @Security BearerAuth
// @Produce  json
// @Param    id  path     int true "book id"
// @Success  200 {object} model.Book
// @Failure  404 {object} errs.Response
// @Router   /books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	book, err := h.catalog.GetBook(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

// CreateBook godoc
// @Summary  Add a book
// @Tags     books
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    body body     model.CreateBookRequest true "book"
// @Success  201  {object} model.Created
// @Failure  400  {object} errs.Response
// @Failure  403  {object} errs.Response
// @Router   /books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	id, err := h.catalog.CreateBook(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, model.Created{ID: id, Message: "Book created."})
}

// UpdateBook godoc
// @Summary  Update book fields
// @Tags     books
// @Security BearerAuth
// @Accept   json
// @Param    id   path     int             true "book id"
// @Param    body body     model.BookPatch true "fields to change"
// @Success  200  {object} message
// @Failure  400  {object} errs.Response
// @Failure  404  {object} errs.Response
// @Router   /books/{id} [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	var patch model.BookPatch
	if err := h.bind(c, &patch); err != nil {
		return h.fail(c, err)
	}
	if err := h.catalog.UpdateBook(c.Request().Context(), id, patch); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, message{Message: "Book updated."})
}

// DeleteBook godoc
// @Summary  Delete a book
// @Tags     books
// @Security BearerAuth
// @Param    id  path     int true "book id"
// @Success  200 {object} message
// @Failure  404 {object} errs.Response
// @Failure  409 {object} errs.Response
// @Router   /books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.catalog.DeleteBook(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, message{Message: "Book deleted."})
}

// ListCategories godoc
// @Summary  List categories
// @Tags     categories
// @Security BearerAuth
// @Produce  json
// @Success  200 {array} model.Category
// @Router   /categories [get]
func (h *Handler) ListCategories(c echo.Context) error {
	cats, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}

// CreateCategory godoc
// @Summary  Add a category
// @Tags     categories
// @Security BearerAuth
// @Accept   json
// @Param    body body     model.CreateCategoryRequest true "category"
// @Success  201  {object} model.Created
// @Failure  409  {object} errs.Response
// @Router   /categories [post]
func (h *Handler) CreateCategory(c echo.Context) error {
	var req model.CreateCategoryRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	id, err := h.catalog.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, model.Created{ID: id, Message: "Category created."})
}

// UpdateCategory godoc
// @Summary  Update category fields
// @Tags     categories
// @Security BearerAuth
// @Accept   json
// @Param    id   path     int                 true "category id"
// @Param    body body     model.CategoryPatch true "fields to change"
// @Success  200  {object} message
// @Router   /categories/{id} [put]
func (h *Handler) UpdateCategory(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	var patch model.CategoryPatch
	if err := h.bind(c, &patch); err != nil {
		return h.fail(c, err)
	}
	if err := h.catalog.UpdateCategory(c.Request().Context(), id, patch); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, message{Message: "Category updated."})
}

// DeleteCategory godoc
// @Summary  Delete a category
// @Tags     categories
// @Security BearerAuth
// @Param    id  path     int true "category id"
// @Success  200 {object} message
// @Failure  409 {object} errs.Response
// @Router   /categories/{id} [delete]
func (h *Handler) DeleteCategory(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.catalog.DeleteCategory(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, message{Message: "Category deleted."})
}
