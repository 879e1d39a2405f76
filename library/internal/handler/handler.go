package handler

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	_ "github.com/Astemirdum/library-borrow/library/docs" // swagger spec
	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/permission"
	md "github.com/Astemirdum/library-borrow/pkg/middleware"
	"github.com/Astemirdum/library-borrow/pkg/validate"
)

type Handler struct {
	slips    SlipService
	catalog  CatalogService
	accounts AccountService
	log      *zap.Logger
}

func New(slips SlipService, catalog CatalogService, accounts AccountService, log *zap.Logger) *Handler {
	return &Handler{
		slips:    slips,
		catalog:  catalog,
		accounts: accounts,
		log:      log.Named("handler"),
	}
}

// @title       Library borrowing API
// @version     1.0
// @BasePath    /api/v1
// @securityDefinitions.apikey BearerAuth
// @in          header
// @name        Authorization

func (h *Handler) NewRouter(apiRPS rate.Limit) *echo.Echo {
	e := echo.New()
	const baseRPS = 10
	if apiRPS <= 0 {
		apiRPS = 100
	}
	e.HideBanner = true
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	authed := api.Group("", h.Authenticate)
	authed.GET("/auth/me", h.Me)
	authed.GET("/roles", h.ListRoles)

	books := authed.Group("/books")
	books.GET("", h.ListBooks, h.Require(permission.ViewBooks))
	books.GET("/:id", h.GetBook, h.Require(permission.ViewBooks))
	books.POST("", h.CreateBook, h.Require(permission.ManageBooks))
	books.PUT("/:id", h.UpdateBook, h.Require(permission.ManageBooks))
	books.DELETE("/:id", h.DeleteBook, h.Require(permission.ManageBooks))

	categories := authed.Group("/categories", h.Require(permission.ManageCategories))
	categories.GET("", h.ListCategories)
	categories.POST("", h.CreateCategory)
	categories.PUT("/:id", h.UpdateCategory)
	categories.DELETE("/:id", h.DeleteCategory)

	users := authed.Group("/users", h.Require(permission.ManageUsers))
	users.GET("", h.ListUsers)
	users.GET("/:id", h.GetUser)
	users.POST("", h.CreateUser)
	users.PUT("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser)

	slips := authed.Group("/borrow/slips", h.Require(permission.ManageOwnBorrowingSlips))
	slips.POST("", h.CreateSlip)
	slips.GET("", h.ListSlips)
	slips.GET("/:id", h.GetSlip)
	slips.PUT("/:id/items", h.UpdateSlipItems)
	slips.DELETE("/:id", h.DeleteSlip)
	slips.POST("/:id/submit", h.SubmitSlip)

	return e
}

// Health godoc
// @Summary Liveness probe
// @Tags    manage
// @Success 200 {string} string "OK"
// @Router  /manage/health [get]
func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// fail renders err with its taxonomy code. Internal errors are logged and
// replaced by a generic message.
func (h *Handler) fail(c echo.Context, err error) error {
	code, status := errs.Classify(err)
	msg := err.Error()
	if code == errs.CodeInternal {
		h.log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err))
		msg = "internal server error"
	}
	return echo.NewHTTPError(status, errs.Response{Code: code, Message: msg})
}

// bind decodes and validates the request body into v.
func (h *Handler) bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return errs.Wrapf(errs.ErrValidation, "malformed request body")
	}
	if err := c.Validate(v); err != nil {
		return errs.Wrapf(errs.ErrValidation, "%s", err.Error())
	}
	return nil
}

// bindOptional binds like bind but accepts a missing or blank body,
// whatever the declared content length.
func (h *Handler) bindOptional(c echo.Context, v interface{}) error {
	req := c.Request()
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return errs.Wrapf(errs.ErrValidation, "malformed request body")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	req.Body = io.NopCloser(bytes.NewReader(raw))
	req.ContentLength = int64(len(raw))
	return h.bind(c, v)
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Wrapf(errs.ErrValidation, "invalid id %q", c.Param("id"))
	}
	return id, nil
}

type message struct {
	Message string `json:"message"`
}
