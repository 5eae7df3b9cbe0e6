package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	guaranteeUC "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/usecase/guarantee"
	insuranceUC "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/usecase/insurance"
	poolUC "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/usecase/pool"
)

type Handler struct {
	pools     *poolUC.Engine
	guarantee *guaranteeUC.Usecase
	insurance *insuranceUC.Usecase
}

func NewHandler(pools *poolUC.Engine, gf *guaranteeUC.Usecase, ins *insuranceUC.Usecase) *Handler {
	return &Handler{pools: pools, guarantee: gf, insurance: ins}
}

// Register wires all routes. The idempotency middleware guards mutating
// endpoints only; queries and health stay outside it.
func (h *Handler) Register(e *echo.Echo, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	pools := e.Group("/pools")
	pools.GET("/:pool_id", h.GetPool)
	pools.GET("/:pool_id/rate", h.GetRate)
	pools.GET("/:pool_id/investors", h.GetInvestors)
	pools.GET("/:pool_id/returns", h.GetReturns)

	mut := e.Group("", idem)
	mut.POST("/pools", h.CreatePool)
	mut.POST("/pools/:pool_id/activate", h.ActivatePool)
	mut.POST("/pools/:pool_id/invest", h.Invest)
	mut.POST("/pools/:pool_id/repay", h.Repay)
	mut.POST("/pools/:pool_id/default", h.TriggerDefault)
	mut.POST("/pools/:pool_id/liquidate", h.Liquidate)
	mut.POST("/pools/:pool_id/cancel", h.CancelExpired)
	mut.POST("/pools/:pool_id/withdraw", h.WithdrawRefund)

	mut.POST("/guarantee/deposits", h.GuaranteeDeposit)
	mut.POST("/guarantee/withdrawals", h.GuaranteeWithdraw)

	mut.POST("/insurance/insurers", h.RegisterInsurer)
	mut.POST("/insurance/insurers/:insurer_id/capital", h.DepositCapital)
	mut.POST("/insurance/policies", h.Underwrite)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}
