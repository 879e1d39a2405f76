package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-borrow/library/internal/model"
)

// Register godoc
// @Summary Self-register a member account
// @Tags    auth
// @Accept  json
// @Param   body body     model.RegisterRequest true "credentials"
// @Success 201  {object} model.Created
// @Failure 400  {object} errs.Response
// @Failure 409  {object} errs.Response
// @Router  /auth/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	id, err := h.accounts.Register(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, model.Created{ID: id, Message: "Registration successful."})
}

// Login godoc
// @Summary Exchange credentials for a session token
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   body body     model.LoginRequest true "credentials"
// @Success 200  {object} model.LoginResponse
// @Failure 401  {object} errs.Response
// @Router  /auth/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	resp, err := h.accounts.Login(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListRoles godoc
// @Summary  List roles
// @Tags     users
// @Security BearerAuth
// @Produce  json
// @Success  200 {array} model.Role
// @Router   /roles [get]
func (h *Handler) ListRoles(c echo.Context) error {
	roles, err := h.accounts.ListRoles(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, roles)
}

// ListUsers godoc
// @Summary  List users
// @Tags     users
// @Security BearerAuth
// @Produce  json
// @Success  200 {array} model.User
// @Router   /users [get]
func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.accounts.ListUsers(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary  Get a user
// @Tags     users
// @Security BearerAuth
// @Param    id  path     int true "user id"
// @Success  200 {object} model.User
// @Failure  404 {object} errs.Response
// @Router   /users/{id} [get]
func (h *Handler) GetUser(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	user, err := h.accounts.GetUser(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUser godoc
// @Summary  Create a user with a role
// @Tags     users
// @Security BearerAuth
// @Accept   json
// @Param    body body     model.CreateUserRequest true "user"
// @Success  201  {object} model.Created
// @Failure  400  {object} errs.Response
// @Failure  409  {object} errs.Response
// @Router   /users [post]
func (h *Handler) CreateUser(c echo.Context) error {
	var req model.CreateUserRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	id, err := h.accounts.CreateUser(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, model.Created{ID: id, Message: "User created."})
}

// UpdateUser godoc
// @Summary  Update user fields
// @Tags     users
// @Security BearerAuth
// @Accept   json
// @Param    id   path     int             true "user id"
// @Param    body body     model.UserPatch true "fields to change"
// @Success  200  {object} message
// @Router   /users/{id} [put]
func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	var patch model.UserPatch
	if err := h.bind(c, &patch); err != nil {
		return h.fail(c, err)
	}
	if err := h.accounts.UpdateUser(c.Request().Context(), id, patch); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, message{Message: "User updated."})
}

// DeleteUser godoc
// @Summary  Delete a user
// @Tags     users
// @Security BearerAuth
// @Param    id  path     int true "user id"
// @Success  200 {object} message
// @Failure  409 {object} errs.Response
// @Router   /users/{id} [delete]
func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	p, _ := principalFrom(c)
	if err := h.accounts.DeleteUser(c.Request().Context(), p.UserID, id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, message{Message: "User deleted."})
}
