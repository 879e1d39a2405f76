package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/permission"
)

const (
	AuthorizationHeader = "Authorization"
	Bearer              = "Bearer "

	principalKey = "principal"
)

// Authenticate resolves the bearer token to a principal with a fresh role
// lookup and stores it in the echo context.
func (h *Handler) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(AuthorizationHeader)
		if len(header) < len(Bearer) || !strings.EqualFold(header[:len(Bearer)], Bearer) {
			return h.fail(c, errs.Wrapf(errs.ErrUnauthenticated, "missing bearer token"))
		}
		token := strings.TrimSpace(header[len(Bearer):])
		if token == "" {
			return h.fail(c, errs.Wrapf(errs.ErrUnauthenticated, "missing bearer token"))
		}

		p, err := h.accounts.Authenticate(c.Request().Context(), token)
		if err != nil {
			return h.fail(c, err)
		}
		c.Set(principalKey, p)
		return next(c)
	}
}

// Require rejects principals whose permission set does not satisfy perm.
func (h *Handler) Require(perm permission.Set) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := principalFrom(c)
			if !ok {
				return h.fail(c, errs.Wrapf(errs.ErrUnauthenticated, "not authenticated"))
			}
			if !p.Can(perm) {
				return h.fail(c, errs.Wrapf(errs.ErrForbidden, "permission %s required", perm))
			}
			return next(c)
		}
	}
}

func principalFrom(c echo.Context) (permission.Principal, bool) {
	p, ok := c.Get(principalKey).(permission.Principal)
	return p, ok
}

type meResponse struct {
	UserID      int64    `json:"userId"`
	Username    string   `json:"username"`
	RoleName    string   `json:"roleName"`
	Permissions []string `json:"permissions"`
}

// Me godoc
// @Summary  Current principal
// @Tags     auth
// @Security BearerAuth
// @Success  200 {object} meResponse
// @Failure  401 {object} errs.Response
// @Router   /auth/me [get]
func (h *Handler) Me(c echo.Context) error {
	p, _ := principalFrom(c)
	return c.JSON(http.StatusOK, meResponse{
		UserID:      p.UserID,
		Username:    p.Username,
		RoleName:    p.RoleName,
		Permissions: p.Permissions.Names(),
	})
}
