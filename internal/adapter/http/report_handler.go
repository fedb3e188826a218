package http

import (
	"net/http"

	"contrack-backend/internal/usecase/reporting"

	"github.com/labstack/echo/v4"
)

type ReportHandler struct{ uc *reporting.Usecase }

func NewReportHandler(uc *reporting.Usecase) *ReportHandler { return &ReportHandler{uc: uc} }

func (h *ReportHandler) Vendor(c echo.Context) error {
	out, err := h.uc.VendorMetrics(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) Client(c echo.Context) error {
	out, err := h.uc.ClientMetrics(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) Pool(c echo.Context) error {
	out, err := h.uc.PoolMetrics(c.Request().Context(), c.Param("pool_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) Investor(c echo.Context) error {
	out, err := h.uc.InvestorMetrics(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
