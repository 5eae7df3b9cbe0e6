package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/fault"
)

func (h *Handler) RegisterInsurer(c echo.Context) error {
	dto, err := h.insurance.Register(c.Request().Context())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *Handler) DepositCapital(c echo.Context) error {
	var req amountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondFieldErrs(c, err)
	}
	insurerID := c.Param("insurer_id")
	if actorID(c) != insurerID {
		return respondErr(c, fault.Authorization("caller may only deposit own capital"))
	}

	dto, err := h.insurance.DepositCapital(c.Request().Context(), insurerID, req.Amount)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type underwriteRequest struct {
	InsurerID string `json:"insurer_id" validate:"required,hex32"`
	PoolID    string `json:"pool_id" validate:"required,hex32"`
	Coverage  int64  `json:"coverage" validate:"required,gt=0"`
}

func (h *Handler) Underwrite(c echo.Context) error {
	var req underwriteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondFieldErrs(c, err)
	}
	if actorID(c) != req.InsurerID {
		return respondErr(c, fault.Authorization("caller may only underwrite as itself"))
	}

	dto, err := h.insurance.Underwrite(c.Request().Context(), req.InsurerID, req.PoolID, req.Coverage)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}
