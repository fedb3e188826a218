package http

import (
	"contrack-backend/internal/usecase/intake"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health    *Handler
	Users     *UserHandler
	Contracts *ContractHandler
	Payments  *PaymentHandler
	Pools     *PoolHandler
	Reports   *ReportHandler
}

// Register mounts every route on e. Mutating routes run behind mutate when it is
// non-nil; reads never do.
func Register(e *echo.Echo, h Handlers, mutate echo.MiddlewareFunc) {
	if e.Validator == nil {
		e.Validator = intake.New()
	}
	var mw []echo.MiddlewareFunc
	if mutate != nil {
		mw = append(mw, mutate)
	}
	post := func(path string, fn echo.HandlerFunc) { e.POST(path, fn, mw...) }

	e.GET("/health", h.Health.Health)

	post("/users", h.Users.Register)
	e.GET("/users/:user_id", h.Users.Get)

	post("/contracts", h.Contracts.Create)
	e.GET("/contracts/:contract_id", h.Contracts.Get)
	post("/contracts/:contract_id/activate", h.Contracts.Activate)
	post("/contracts/:contract_id/settle", h.Contracts.Settle)
	post("/contracts/:contract_id/cancel", h.Contracts.Cancel)
	post("/contracts/:contract_id/dispute", h.Contracts.Dispute)
	post("/contracts/:contract_id/proofs", h.Contracts.SubmitProof)
	post("/contracts/:contract_id/manual-review", h.Contracts.ManualReview)
	e.GET("/contracts/:contract_id/recovery", h.Contracts.Recovery)

	post("/contracts/:contract_id/payment-schedule", h.Payments.CreateSchedule)
	e.GET("/contracts/:contract_id/payment-schedule", h.Payments.GetSchedule)
	post("/contracts/:contract_id/payments", h.Payments.Record)
	e.GET("/contracts/:contract_id/payments", h.Payments.History)
	e.GET("/contracts/:contract_id/payment-progress", h.Payments.Progress)
	e.PATCH("/payments/:payment_id/status", h.Payments.UpdateStatus, mw...)
	post("/payment-schedules/:schedule_id/reminder", h.Payments.Reminder)

	post("/pools", h.Pools.Create)
	e.GET("/pools/:pool_id", h.Pools.Get)
	post("/pools/:pool_id/investments", h.Pools.Invest)
	post("/pools/:pool_id/redemptions", h.Pools.Redeem)
	post("/pools/:pool_id/exposures", h.Pools.CreateExposure)
	e.GET("/pools/:pool_id/nav", h.Pools.NAV)
	e.GET("/pools/:pool_id/investors/:investor_id", h.Pools.Holding)
	post("/exposures/:exposure_id/settle", h.Pools.SettleExposure)
	post("/exposures/:exposure_id/default", h.Pools.DefaultExposure)
	post("/exposures/:exposure_id/recoveries", h.Pools.Recover)

	e.GET("/reports/vendors/:user_id", h.Reports.Vendor)
	e.GET("/reports/clients/:user_id", h.Reports.Client)
	e.GET("/reports/pools/:pool_id", h.Reports.Pool)
	e.GET("/reports/investors/:user_id", h.Reports.Investor)
}
