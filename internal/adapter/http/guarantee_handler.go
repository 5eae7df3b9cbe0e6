package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	guaranteeUC "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/usecase/guarantee"
)

type guaranteeDepositRequest struct {
	TierID uint64 `json:"tier_id" validate:"required,gt=0"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

func (h *Handler) GuaranteeDeposit(c echo.Context) error {
	var req guaranteeDepositRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondFieldErrs(c, err)
	}

	dto, err := h.guarantee.Deposit(c.Request().Context(), guaranteeUC.DepositInput{
		Investor: actorID(c),
		TierID:   req.TierID,
		Amount:   req.Amount,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type guaranteeWithdrawRequest struct {
	TierID uint64 `json:"tier_id" validate:"required,gt=0"`
}

func (h *Handler) GuaranteeWithdraw(c echo.Context) error {
	var req guaranteeWithdrawRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondFieldErrs(c, err)
	}

	refunded, err := h.guarantee.Withdraw(c.Request().Context(), actorID(c), req.TierID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"refunded": refunded})
}
