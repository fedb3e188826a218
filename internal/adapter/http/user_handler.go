package http

import (
	"net/http"

	"contrack-backend/internal/usecase/intake"
	"contrack-backend/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type UserHandler struct{ uc *user.Usecase }

func NewUserHandler(uc *user.Usecase) *UserHandler { return &UserHandler{uc: uc} }

func (h *UserHandler) Register(c echo.Context) error {
	var req intake.UserRequest
	if err := bindOnly(c, &req); err != nil {
		return respondError(c, err)
	}
	u, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.uc.Get(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
