package http

import (
	"net/http"

	"contrack-backend/internal/adapter/middleware"
	"contrack-backend/internal/usecase/intake"
	"contrack-backend/internal/usecase/pool"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type PoolHandler struct{ uc *pool.Usecase }

func NewPoolHandler(uc *pool.Usecase) *PoolHandler { return &PoolHandler{uc: uc} }

type settleExposureReq struct {
	DelayPenalty decimal.Decimal `json:"delay_penalty" validate:"gte=0"`
}

type defaultExposureReq struct {
	RecoveryAmount decimal.Decimal `json:"recovery_amount" validate:"gte=0"`
}

type recoveryReq struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Full   bool            `json:"full"`
	Notes  string          `json:"notes" validate:"max=1000"`
}

func (h *PoolHandler) Create(c echo.Context) error {
	var req intake.PoolRequest
	if err := bindOnly(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreatePool(c.Request().Context(), req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PoolHandler) Get(c echo.Context) error {
	out, err := h.uc.GetPool(c.Request().Context(), c.Param("pool_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Invest and Redeem default the investor to the calling actor.
func (h *PoolHandler) Invest(c echo.Context) error {
	var req intake.InvestmentRequest
	if err := bindOnly(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.InvestorID == "" {
		req.InvestorID = middleware.Actor(c)
	}
	out, err := h.uc.Invest(c.Request().Context(), c.Param("pool_id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PoolHandler) Redeem(c echo.Context) error {
	var req intake.RedemptionRequest
	if err := bindOnly(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.InvestorID == "" {
		req.InvestorID = middleware.Actor(c)
	}
	out, err := h.uc.Redeem(c.Request().Context(), c.Param("pool_id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PoolHandler) CreateExposure(c echo.Context) error {
	var req intake.ExposureRequest
	if err := bindOnly(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateExposure(c.Request().Context(), c.Param("pool_id"), req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PoolHandler) NAV(c echo.Context) error {
	out, err := h.uc.GetNAVHistory(c.Request().Context(), c.Param("pool_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"pool_id": c.Param("pool_id"), "snapshots": out})
}

func (h *PoolHandler) Holding(c echo.Context) error {
	out, err := h.uc.GetInvestorHolding(c.Request().Context(), c.Param("pool_id"), c.Param("investor_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PoolHandler) SettleExposure(c echo.Context) error {
	var req settleExposureReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SettleExposure(c.Request().Context(), c.Param("exposure_id"), req.DelayPenalty, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PoolHandler) DefaultExposure(c echo.Context) error {
	var req defaultExposureReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.DefaultExposure(c.Request().Context(), c.Param("exposure_id"), req.RecoveryAmount, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PoolHandler) Recover(c echo.Context) error {
	var req recoveryReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RecordRecovery(c.Request().Context(), pool.RecoveryInput{
		ExposureID: c.Param("exposure_id"),
		Amount:     req.Amount,
		Full:       req.Full,
		Notes:      req.Notes,
		ActorID:    middleware.Actor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
