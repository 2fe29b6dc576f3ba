package http

import (
	"net/http"
	"time"

	"credify-backend/internal/domain/profile"
	"credify-backend/internal/domain/user"
	profileuc "credify-backend/internal/usecase/profile"

	"github.com/labstack/echo/v4"
)

type ProfileHandler struct{ uc *profileuc.Usecase }

func NewProfileHandler(uc *profileuc.Usecase) *ProfileHandler { return &ProfileHandler{uc: uc} }

type paymentReq struct {
	LoanID        uint64    `json:"loan_id" validate:"required"`
	Amount        float64   `json:"amount" validate:"required,gt=0,dec2"`
	Status        string    `json:"status" validate:"omitempty,oneof=Successful Failed Pending"`
	PaymentID     string    `json:"payment_id" validate:"max=64"`
	FailureReason string    `json:"failure_reason" validate:"max=255"`
	Date          time.Time `json:"date"`
}

type payoutReq struct {
	Amount float64   `json:"amount" validate:"required,gt=0,dec2"`
	Status string    `json:"status" validate:"omitempty,oneof=Settled Pending Failed"`
	Date   time.Time `json:"date"`
}

type displayNameReq struct {
	DisplayName string `json:"display_name" validate:"required,max=128"`
}

func (h *ProfileHandler) Borrower(c echo.Context) error {
	b, err := h.uc.GetBorrower(c.Request().Context(), claims(c).UID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *ProfileHandler) BorrowerDashboard(c echo.Context) error {
	d, err := h.uc.BorrowerDashboard(c.Request().Context(), claims(c).UID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *ProfileHandler) AddPayment(c echo.Context) error {
	var req paymentReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, err := h.uc.AddPayment(c.Request().Context(), claims(c).UID, profileuc.PaymentInput{
		LoanID:        req.LoanID,
		Amount:        req.Amount,
		Status:        profile.PaymentStatus(req.Status),
		PaymentID:     req.PaymentID,
		FailureReason: req.FailureReason,
		Date:          req.Date,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProfileHandler) Lender(c echo.Context) error {
	l, err := h.uc.GetLender(c.Request().Context(), claims(c).UID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *ProfileHandler) LenderDashboard(c echo.Context) error {
	d, err := h.uc.LenderDashboard(c.Request().Context(), claims(c).UID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *ProfileHandler) AddPayout(c echo.Context) error {
	var req payoutReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, err := h.uc.AddPayout(c.Request().Context(), claims(c).UID, profileuc.PayoutInput{
		Amount: req.Amount,
		Status: profile.PayoutStatus(req.Status),
		Date:   req.Date,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProfileHandler) UpdateDisplayName(c echo.Context) error {
	var req displayNameReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	cl := claims(c)
	if err := h.uc.UpdateDisplayName(c.Request().Context(), user.Role(cl.Role), cl.UID, req.DisplayName); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"display_name": req.DisplayName})
}
