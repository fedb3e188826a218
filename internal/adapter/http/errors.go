package http

import (
	"errors"
	"fmt"
	"net/http"

	"contrack-backend/internal/domain/apperr"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error   string              `json:"error"`
	Kind    apperr.Kind         `json:"kind,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// statusFor maps an error kind onto the HTTP status the API promises for it.
func statusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation, apperr.KindResource:
		return http.StatusUnprocessableEntity
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusForbidden
	case apperr.KindState, apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var errBadBody = echo.NewHTTPError(http.StatusBadRequest, "invalid body")

func respondError(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return c.JSON(he.Code, ErrorResponse{Error: fmt.Sprint(he.Message)})
	}
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	body := ErrorResponse{Error: err.Error(), Kind: kind, Details: apperr.FieldsOf(err)}
	if kind == apperr.KindValidation {
		body.Error = "validation failed"
	}
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		body.Error = "internal error"
	}
	return c.JSON(status, body)
}

// bindValid decodes the body into req and runs the echo validator on it.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errBadBody
	}
	return c.Validate(req)
}

// bindOnly decodes the body; validation is left to the usecase.
func bindOnly(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errBadBody
	}
	return nil
}
