package http

import (
	"net/http"

	"contrack-backend/internal/adapter/middleware"
	"contrack-backend/internal/usecase/contract"
	"contrack-backend/internal/usecase/intake"
	"contrack-backend/internal/usecase/pool"
	"contrack-backend/internal/usecase/verification"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ContractHandler struct {
	contracts *contract.Usecase
	verify    *verification.Usecase
	pools     *pool.Usecase
}

func NewContractHandler(contracts *contract.Usecase, verify *verification.Usecase, pools *pool.Usecase) *ContractHandler {
	return &ContractHandler{contracts: contracts, verify: verify, pools: pools}
}

type settleReq struct {
	ActualAmount *decimal.Decimal `json:"actual_amount" validate:"omitempty,gt=0"`
}

type reasonReq struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type manualReviewReq struct {
	Approved *bool `json:"approved" validate:"required"`
}

func (h *ContractHandler) Create(c echo.Context) error {
	var req intake.ContractRequest
	if err := bindOnly(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.contracts.Create(c.Request().Context(), req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ContractHandler) Get(c echo.Context) error {
	out, err := h.contracts.Get(c.Request().Context(), c.Param("contract_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContractHandler) Activate(c echo.Context) error {
	out, err := h.contracts.Activate(c.Request().Context(), c.Param("contract_id"), middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContractHandler) Settle(c echo.Context) error {
	var req settleReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.contracts.Settle(c.Request().Context(), contract.SettleInput{
		ContractID:   c.Param("contract_id"),
		ActualAmount: req.ActualAmount,
		ActorID:      middleware.Actor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContractHandler) Cancel(c echo.Context) error {
	var req reasonReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.contracts.Cancel(c.Request().Context(), c.Param("contract_id"), req.Reason, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContractHandler) Dispute(c echo.Context) error {
	var req reasonReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.contracts.Dispute(c.Request().Context(), c.Param("contract_id"), middleware.Actor(c), req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// SubmitProof always answers 200 unless the body is malformed; verification
// failures come back as a MANUAL_REQUIRED result.
func (h *ContractHandler) SubmitProof(c echo.Context) error {
	var req verification.ProofRequest
	if err := bindOnly(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.verify.VerifyProof(c.Request().Context(), c.Param("contract_id"), middleware.Actor(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContractHandler) ManualReview(c echo.Context) error {
	var req manualReviewReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.verify.ApproveManualReview(c.Request().Context(), c.Param("contract_id"), middleware.Actor(c), *req.Approved)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContractHandler) Recovery(c echo.Context) error {
	out, err := h.pools.GetRecoveryStatus(c.Request().Context(), c.Param("contract_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"contract_id": c.Param("contract_id"), "exposures": out})
}
