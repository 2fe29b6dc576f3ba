package http

import (
	"net/http"

	"credify-backend/internal/domain/user"
	"credify-backend/internal/usecase/payment"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type confirmPaymentReq struct {
	Purpose       string  `json:"purpose" validate:"required,oneof=emi funding"`
	LoanID        uint64  `json:"loan_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"gte=0,dec2"`
	PaymentID     string  `json:"razorpay_payment_id" validate:"max=64"`
	OrderID       string  `json:"razorpay_order_id" validate:"max=64"`
	Signature     string  `json:"razorpay_signature" validate:"max=128"`
	Failed        bool    `json:"failed"`
	FailureReason string  `json:"failure_reason" validate:"max=255"`
}

func (h *PaymentHandler) Config(c echo.Context) error {
	var amount float64
	if err := echo.QueryParamsBinder(c).MustFloat64("amount", &amount).BindError(); err != nil {
		return badRequest(c, "amount query parameter is required")
	}
	cfg, err := h.uc.Config(amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *PaymentHandler) Confirm(c echo.Context) error {
	var req confirmPaymentReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	cl := claims(c)
	res, err := h.uc.Confirm(c.Request().Context(), payment.ConfirmInput{
		UID:           cl.UID,
		Role:          user.Role(cl.Role),
		Purpose:       payment.Purpose(req.Purpose),
		LoanID:        req.LoanID,
		Amount:        req.Amount,
		PaymentID:     req.PaymentID,
		OrderID:       req.OrderID,
		Signature:     req.Signature,
		Failed:        req.Failed,
		FailureReason: req.FailureReason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
