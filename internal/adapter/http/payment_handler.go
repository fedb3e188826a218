package http

import (
	"net/http"

	"contrack-backend/internal/adapter/middleware"
	paymentDomain "contrack-backend/internal/domain/payment"
	"contrack-backend/internal/usecase/intake"
	"contrack-backend/internal/usecase/payment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type scheduleReq struct {
	Milestones []intake.MilestoneRequest `json:"milestones" validate:"required,min=1,dive"`
}

type paymentReq struct {
	ScheduleID    string          `json:"schedule_id" validate:"omitempty,hex32"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	PayerID       string          `json:"payer_id" validate:"omitempty,hex32"`
	PayeeID       string          `json:"payee_id" validate:"omitempty,hex32"`
	PaymentMethod string          `json:"payment_method" validate:"max=50"`
	TransactionID string          `json:"transaction_id" validate:"max=100"`
	Metadata      map[string]any  `json:"metadata"`
}

type statusReq struct {
	Status   paymentDomain.Status `json:"status" validate:"required,oneof=PENDING PROCESSING COMPLETED FAILED CANCELLED REFUNDED"`
	Metadata map[string]any       `json:"metadata"`
}

func (h *PaymentHandler) CreateSchedule(c echo.Context) error {
	var req scheduleReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateSchedule(c.Request().Context(), c.Param("contract_id"), middleware.Actor(c), intake.Milestones(req.Milestones))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"contract_id": c.Param("contract_id"), "schedules": out})
}

func (h *PaymentHandler) GetSchedule(c echo.Context) error {
	out, err := h.uc.GetPaymentSchedule(c.Request().Context(), c.Param("contract_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"contract_id": c.Param("contract_id"), "schedules": out})
}

func (h *PaymentHandler) Record(c echo.Context) error {
	var req paymentReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	payer := req.PayerID
	if payer == "" {
		payer = middleware.Actor(c)
	}
	out, err := h.uc.RecordPayment(c.Request().Context(), payment.RecordPaymentInput{
		ContractID:    c.Param("contract_id"),
		ScheduleID:    req.ScheduleID,
		Amount:        req.Amount,
		PayerID:       payer,
		PayeeID:       req.PayeeID,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Metadata:      req.Metadata,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PaymentHandler) History(c echo.Context) error {
	out, err := h.uc.GetPaymentHistory(c.Request().Context(), c.Param("contract_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"contract_id": c.Param("contract_id"), "payments": out})
}

func (h *PaymentHandler) Progress(c echo.Context) error {
	out, err := h.uc.CalculatePaymentProgress(c.Request().Context(), c.Param("contract_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) UpdateStatus(c echo.Context) error {
	var req statusReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdatePaymentStatus(c.Request().Context(), payment.UpdateStatusInput{
		PaymentID: c.Param("payment_id"),
		Status:    req.Status,
		ActorID:   middleware.Actor(c),
		Metadata:  req.Metadata,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) Reminder(c echo.Context) error {
	out, err := h.uc.SendPaymentReminder(c.Request().Context(), c.Param("schedule_id"), middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusAccepted, out)
}
