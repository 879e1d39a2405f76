package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-borrow/library/internal/model"
)

type createSlipResponse struct {
	SlipID    int64  `json:"slipId"`
	ItemCount int    `json:"itemCount"`
	Message   string `json:"message"`
}

type slipResponse struct {
	model.SlipResult
	Message string `json:"message"`
}

// CreateSlip godoc
// @Summary  Create a draft borrowing slip
// @Tags     borrow
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    body body     model.SlipItemsRequest false "books to borrow"
// @Success  201  {object} createSlipResponse
// @Failure  400  {object} errs.Response
// @Failure  401  {object} errs.Response
// @Failure  403  {object} errs.Response
// @Router   /borrow/slips [post]
func (h *Handler) CreateSlip(c echo.Context) error {
	var req model.SlipItemsRequest
	if err := h.bindOptional(c, &req); err != nil {
		return h.fail(c, err)
	}
	p, _ := principalFrom(c)
	res, err := h.slips.CreateSlip(c.Request().Context(), p.UserID, req.BookIDs)
	if err != nil {
		return h.fail(c, err)
	}
	msg := fmt.Sprintf("Borrowing slip created successfully with %d item(s).", res.ItemCount)
	if res.ItemCount == 0 {
		msg = "Borrowing slip created successfully (empty)."
	}
	return c.JSON(http.StatusCreated, createSlipResponse{SlipID: res.SlipID, ItemCount: res.ItemCount, Message: msg})
}

// ListSlips godoc
// @Summary  List own borrowing slips
// @Tags     borrow
// @Security BearerAuth
// @Produce  json
// @Success  200 {array}  model.SlipSummary
// @Failure  401 {object} errs.Response
// @Router   /borrow/slips [get]
func (h *Handler) ListSlips(c echo.Context) error {
	p, _ := principalFrom(c)
	slips, err := h.slips.ListSlips(c.Request().Context(), p.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, slips)
}

// GetSlip godoc
// @Summary  Borrowing slip with items
// @Tags     borrow
// @Security BearerAuth
// @Produce  json
// @Param    id  path     int true "slip id"
// @Success  200 {object} model.SlipDetail
// @Failure  404 {object} errs.Response
// @Router   /borrow/slips/{id} [get]
func (h *Handler) GetSlip(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	p, _ := principalFrom(c)
	slip, err := h.slips.GetSlip(c.Request().Context(), p.UserID, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, slip)
}

// UpdateSlipItems godoc
// @Summary  Replace the items of a draft slip
// @Tags     borrow
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id   path     int                    true "slip id"
// @Param    body body     model.SlipItemsRequest true "new item set"
// @Success  200  {object} slipResponse
// @Failure  400  {object} errs.Response
// @Failure  404  {object} errs.Response
// @Failure  409  {object} errs.Response
// @Router   /borrow/slips/{id}/items [put]
func (h *Handler) UpdateSlipItems(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req model.SlipItemsRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	p, _ := principalFrom(c)
	res, err := h.slips.UpdateSlipItems(c.Request().Context(), p.UserID, id, req.BookIDs)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, slipResponse{SlipResult: res, Message: "Borrowing slip items updated."})
}

// DeleteSlip godoc
// @Summary  Delete a draft slip
// @Tags     borrow
// @Security BearerAuth
// @Param    id  path int true "slip id"
// @Success  200 {object} message
// @Failure  404 {object} errs.Response
// @Failure  409 {object} errs.Response
// @Router   /borrow/slips/{id} [delete]
func (h *Handler) DeleteSlip(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	p, _ := principalFrom(c)
	if err := h.slips.DeleteSlip(c.Request().Context(), p.UserID, id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, message{Message: "Borrowing slip deleted."})
}

// SubmitSlip godoc
// @Summary  Submit a draft slip
// @Tags     borrow
// @Security BearerAuth
// @Produce  json
// @Param    id  path     int true "slip id"
// @Success  200 {object} slipResponse
// @Failure  400 {object} errs.Response
// @Failure  404 {object} errs.Response
// @Failure  409 {object} errs.Response
// @Router   /borrow/slips/{id}/submit [post]
func (h *Handler) SubmitSlip(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	p, _ := principalFrom(c)
	res, err := h.slips.SubmitSlip(c.Request().Context(), p.UserID, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, slipResponse{SlipResult: res, Message: "Borrowing slip submitted."})
}
