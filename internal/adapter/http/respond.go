package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/fault"
)

// statusFor maps the fault taxonomy onto HTTP status codes. Anything without
// a Kind is a 500: those are bugs or infrastructure failures, not outcomes.
func statusFor(err error) int {
	switch fault.KindOf(err) {
	case fault.KindValidation:
		return http.StatusBadRequest
	case fault.KindState:
		return http.StatusConflict
	case fault.KindAuthorization:
		return http.StatusForbidden
	case fault.KindCapacity:
		return http.StatusUnprocessableEntity
	case fault.KindNotFound:
		return http.StatusNotFound
	case fault.KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondErr(c echo.Context, err error) error {
	return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}

func respondFieldErrs(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
