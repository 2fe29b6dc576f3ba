package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"credify-backend/internal/adapter/middleware"
	"credify-backend/internal/domain/funding"
	"credify-backend/internal/domain/kyc"
	"credify-backend/internal/domain/loan"
	"credify-backend/internal/domain/otp"
	"credify-backend/internal/domain/profile"
	"credify-backend/internal/domain/user"
	"credify-backend/internal/usecase/assistant"
	"credify-backend/internal/usecase/auth"
	"credify-backend/internal/usecase/payment"
	profileuc "credify-backend/internal/usecase/profile"
	"credify-backend/pkg/jwt"
	"credify-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var errorStatus = []struct {
	err  error
	code int
}{
	{loan.ErrInvalidInput, http.StatusBadRequest},
	{loan.ErrInvalidBid, http.StatusBadRequest},
	{kyc.ErrInvalidImage, http.StatusBadRequest},
	{kyc.ErrMissingImages, http.StatusBadRequest},
	{assistant.ErrEmptyMessage, http.StatusBadRequest},
	{auth.ErrInvalidInput, http.StatusBadRequest},
	{profileuc.ErrInvalidInput, http.StatusBadRequest},
	{payment.ErrInvalidInput, http.StatusBadRequest},
	{payment.ErrInvalidSignature, http.StatusBadRequest},
	{otp.ErrNotFound, http.StatusBadRequest},
	{otp.ErrExpired, http.StatusBadRequest},
	{otp.ErrMismatch, http.StatusBadRequest},

	{user.ErrInvalidCredentials, http.StatusUnauthorized},
	{jwt.ErrInvalidToken, http.StatusUnauthorized},
	{jwt.ErrExpiredToken, http.StatusUnauthorized},
	{payment.ErrWrongRole, http.StatusForbidden},

	{loan.ErrNotFound, http.StatusNotFound},
	{funding.ErrNotFound, http.StatusNotFound},
	{profile.ErrNotFound, http.StatusNotFound},
	{kyc.ErrSessionNotFound, http.StatusNotFound},
	{user.ErrNotFound, http.StatusNotFound},

	{loan.ErrBidNotLower, http.StatusConflict},
	{loan.ErrNotBiddable, http.StatusConflict},
	{loan.ErrVersionConflict, http.StatusConflict},
	{loan.ErrAlreadyFunded, http.StatusConflict},
	{kyc.ErrInvalidTransition, http.StatusConflict},

	{otp.ErrRateLimited, http.StatusTooManyRequests},
	{otp.ErrDeliveryFailed, http.StatusBadGateway},
	{assistant.ErrModelNotConfigured, http.StatusInternalServerError},
	{kyc.ErrFaceServiceMissing, http.StatusInternalServerError},
}

func statusFor(err error) int {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return m.code
		}
	}
	return http.StatusInternalServerError
}

// writeError is the single place usecase errors become HTTP responses.
func writeError(c echo.Context, err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(ve)})
	}
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError && !isPublic(err) {
		logger.Error(c.Request().Context(), "request failed", zap.String("route", c.Path()), zap.Error(err))
		msg = "internal server error"
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}

func isPublic(err error) bool {
	return errors.Is(err, assistant.ErrModelNotConfigured) || errors.Is(err, kyc.ErrFaceServiceMissing)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// bindValid binds the body and runs the registered validator. When ok is
// false the error response has already been written.
func bindValid(c echo.Context, dst any) (ok bool, err error) {
	if err := c.Bind(dst); err != nil {
		return false, badRequest(c, "invalid body")
	}
	if err := c.Validate(dst); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	return true, nil
}

func claims(c echo.Context) *jwt.Claims {
	cl, ok := middleware.Claims(c)
	if !ok {
		return &jwt.Claims{}
	}
	return cl
}

func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	return id, err == nil && id > 0
}
