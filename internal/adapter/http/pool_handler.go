package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/auth"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/fault"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/risk"
	poolUC "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/usecase/pool"
)

// actorID reads the caller identity set by the idempotency middleware. The
// middleware already rejected mutating requests without a valid header, so an
// empty value here only happens on GETs or misconfigured routes.
func actorID(c echo.Context) string {
	return c.Request().Header.Get("Ax-Actor-Id")
}

type createPoolRequest struct {
	Name         string `json:"name" validate:"required"`
	Region       string `json:"region" validate:"required"`
	Domain       string `json:"domain" validate:"required"`
	Ecological   bool   `json:"ecological"`
	TargetAmount int64  `json:"target_amount" validate:"required,gt=0"`
	TokenPrice   int64  `json:"token_price" validate:"required,gt=0"`
	DurationDays int64  `json:"duration_days" validate:"required,gt=0"`
	CreditScore  int64  `json:"credit_score" validate:"gte=0,lte=850"`
	Market       string `json:"market" validate:"omitempty,oneof=neutral hot cold"`
}

func marketSignal(s string) risk.MarketSignal {
	switch s {
	case "hot":
		return risk.MarketHot
	case "cold":
		return risk.MarketCold
	default:
		return risk.MarketNeutral
	}
}

func (h *Handler) CreatePool(c echo.Context) error {
	var req createPoolRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondFieldErrs(c, err)
	}

	cap := auth.NewCapability(actorID(c), auth.RoleBorrower)
	dto, err := h.pools.CreatePool(c.Request().Context(), cap, poolUC.CreatePoolInput{
		Name:         req.Name,
		Region:       req.Region,
		Domain:       req.Domain,
		Ecological:   req.Ecological,
		TargetAmount: req.TargetAmount,
		TokenPrice:   req.TokenPrice,
		DurationDays: req.DurationDays,
		CreditScore:  req.CreditScore,
		Market:       marketSignal(req.Market),
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *Handler) ActivatePool(c echo.Context) error {
	cap := auth.NewCapability(actorID(c), auth.RoleBorrower)
	dto, err := h.pools.ActivatePool(c.Request().Context(), cap, c.Param("pool_id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type amountRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

func (h *Handler) Invest(c echo.Context) error {
	var req amountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondFieldErrs(c, err)
	}

	cap := auth.NewCapability(actorID(c), auth.RoleInvestor)
	res, err := h.pools.Invest(c.Request().Context(), cap, c.Param("pool_id"), req.Amount)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Repay(c echo.Context) error {
	var req amountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondFieldErrs(c, err)
	}

	cap := auth.NewCapability(actorID(c), auth.RoleBorrower)
	res, err := h.pools.Repay(c.Request().Context(), cap, c.Param("pool_id"), req.Amount)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// TriggerDefault is deliberately open to any caller: default is a fact of
// time, not a privilege.
func (h *Handler) TriggerDefault(c echo.Context) error {
	cap := auth.NewCapability(actorID(c), auth.RoleInvestor)
	res, err := h.pools.TriggerDefault(c.Request().Context(), cap, c.Param("pool_id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Liquidate(c echo.Context) error {
	cap := auth.NewCapability(actorID(c), auth.RoleOperator)
	dto, err := h.pools.Liquidate(c.Request().Context(), cap, c.Param("pool_id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *Handler) CancelExpired(c echo.Context) error {
	dto, err := h.pools.CancelExpired(c.Request().Context(), c.Param("pool_id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *Handler) WithdrawRefund(c echo.Context) error {
	cap := auth.NewCapability(actorID(c), auth.RoleInvestor)
	refund, err := h.pools.WithdrawIfCancelled(c.Request().Context(), cap, c.Param("pool_id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"refunded": refund})
}

func (h *Handler) GetPool(c echo.Context) error {
	dto, err := h.pools.GetPoolDetails(c.Request().Context(), c.Param("pool_id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *Handler) GetRate(c echo.Context) error {
	rate, err := h.pools.GetDynamicRate(c.Request().Context(), c.Param("pool_id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"dynamic_rate_bp": rate})
}

func (h *Handler) GetInvestors(c echo.Context) error {
	investors, err := h.pools.GetPoolInvestors(c.Request().Context(), c.Param("pool_id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, investors)
}

func (h *Handler) GetReturns(c echo.Context) error {
	amount, err := strconv.ParseInt(c.QueryParam("amount"), 10, 64)
	if err != nil {
		return respondErr(c, fault.Validation("amount must be an integer"))
	}
	total, err := h.pools.CalculatePotentialReturns(c.Request().Context(), c.Param("pool_id"), amount)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"amount": amount, "projected_return": total})
}
