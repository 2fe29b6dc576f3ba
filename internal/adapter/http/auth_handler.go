package http

import (
	"net/http"
	"time"

	"credify-backend/internal/domain/user"
	"credify-backend/internal/usecase/auth"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct{ uc *auth.Usecase }

func NewAuthHandler(uc *auth.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

type loginReq struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=6,max=128"`
	Role        string `json:"role" validate:"required,oneof=borrower lender"`
	DisplayName string `json:"display_name" validate:"max=128"`
}

type otpVerifyReq struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
	Role  string `json:"role" validate:"required,oneof=borrower lender"`
}

type otpResendReq struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=borrower lender"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type otpSentResp struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	NewUser   bool      `json:"new_user,omitempty"`
	ExpiresAt time.Time `json:"otp_expires_at"`
	Message   string    `json:"message"`
}

// Login checks the password and mails a one-time code.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	res, err := h.uc.Login(c.Request().Context(), auth.LoginInput{
		Email:       req.Email,
		Password:    req.Password,
		Role:        user.Role(req.Role),
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, otpSentResp{
		Email:     res.Email,
		Role:      string(res.Role),
		NewUser:   res.NewUser,
		ExpiresAt: res.OTPExpiresAt,
		Message:   "OTP sent to your email",
	})
}

func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req otpVerifyReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	s, err := h.uc.VerifyLogin(c.Request().Context(), req.Email, req.Code, user.Role(req.Role))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req otpResendReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	exp, err := h.uc.Resend(c.Request().Context(), req.Email, user.Role(req.Role))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, otpSentResp{Email: req.Email, Role: req.Role, ExpiresAt: exp, Message: "OTP sent to your email"})
}

// Refresh exchanges a refresh token for a new token pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	s, err := h.uc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
