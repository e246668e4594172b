package http

import (
	"errors"
	"fmt"
	"net/http"

	"marketplace/internal/generated/servers"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps domain error kinds to response codes.
func statusFor(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, errs.ErrIllegalTransition),
		errors.Is(err, errs.ErrPaymentFailed):
		return http.StatusBadRequest
	case errors.As(err, &httpErr):
		return httpErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// kindFor names the failure category reported next to the status code.
func kindFor(err error, code int) servers.ErrorKind {
	var paymentErr *errs.PaymentError
	switch {
	case code == http.StatusUnauthorized:
		return servers.UNAUTHENTICATED
	case code == http.StatusForbidden:
		return servers.AUTHORIZATION
	case code == http.StatusNotFound:
		return servers.NOTFOUND
	case code >= http.StatusInternalServerError:
		return servers.INTERNAL
	case errors.As(err, &paymentErr):
		return servers.ErrorKind(paymentErr.Kind)
	case errors.Is(err, errs.ErrIllegalTransition):
		return servers.ILLEGALTRANSITION
	default:
		return servers.VALIDATION
	}
}

func respondError(ctx echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message = fmt.Sprint(httpErr.Message)
	}
	if code == http.StatusInternalServerError {
		message = http.StatusText(code)
	}
	return ctx.JSON(code, servers.Error{
		Code:    code,
		Kind:    kindFor(err, code),
		Message: message,
		Success: false,
	})
}

func respond(ctx echo.Context, code int, message string, data any) error {
	return ctx.JSON(code, servers.Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// fail writes the error response, logging anything that is not a client error.
func (s *Server) fail(ctx echo.Context, err error) error {
	if statusFor(err) >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err)
	}
	return respondError(ctx, err)
}

// bindBody decodes the JSON request body into v.
func bindBody(ctx echo.Context, v any) error {
	if err := ctx.Bind(v); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}
