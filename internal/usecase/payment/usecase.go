package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"credify-backend/internal/domain/profile"
	"credify-backend/internal/domain/user"
	loanuc "credify-backend/internal/usecase/loan"
	profileuc "credify-backend/internal/usecase/profile"
	"credify-backend/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Purpose string

const (
	PurposeEMI     Purpose = "emi"
	PurposeFunding Purpose = "funding"

	Currency = "INR"
)

var (
	ErrInvalidInput     = errors.New("invalid payment input")
	ErrInvalidSignature = errors.New("payment signature mismatch")
	ErrWrongRole        = errors.New("payment purpose not allowed for this role")
)

type PaymentRecorder interface {
	AddPayment(ctx context.Context, uid string, in profileuc.PaymentInput) (*profile.Payment, error)
}

type Funder interface {
	Fund(ctx context.Context, in loanuc.FundInput) (*loanuc.FundResult, error)
}

// CheckoutConfig is what the external checkout widget needs to open.
type CheckoutConfig struct {
	KeyID       string  `json:"key_id"`
	Amount      float64 `json:"amount"`
	AmountMinor int64   `json:"amount_minor"`
	Currency    string  `json:"currency"`
}

type ConfirmInput struct {
	UID           string
	Role          user.Role
	Purpose       Purpose
	LoanID        uint64
	Amount        float64
	PaymentID     string
	OrderID       string
	Signature     string
	Failed        bool
	FailureReason string
}

type ConfirmResult struct {
	Purpose Purpose            `json:"purpose"`
	Status  string             `json:"status"`
	Payment *profile.Payment   `json:"payment,omitempty"`
	Funding *loanuc.FundResult `json:"funding,omitempty"`
}

type Usecase struct {
	keyID    string
	secret   string
	payments PaymentRecorder
	funder   Funder
	now      func() time.Time
}

func NewUsecase(keyID, secret string, payments PaymentRecorder, funder Funder) *Usecase {
	return &Usecase{keyID: keyID, secret: secret, payments: payments, funder: funder, now: time.Now}
}

// Config converts an amount in rupees to the minor units the checkout expects.
func (u *Usecase) Config(amount float64) (*CheckoutConfig, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be a positive number", ErrInvalidInput)
	}
	minor := decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return &CheckoutConfig{KeyID: u.keyID, Amount: amount, AmountMinor: minor, Currency: Currency}, nil
}

// Signature is hex(HMAC_SHA256(order_id|payment_id, secret)).
func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (u *Usecase) verify(in ConfirmInput) error {
	if u.secret == "" || in.OrderID == "" {
		return nil
	}
	expected := Signature(u.secret, in.OrderID, in.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(in.Signature))) {
		return ErrInvalidSignature
	}
	return nil
}

// Confirm records the outcome of a checkout. EMI payments land in the
// borrower's history; successful funding payments fund the loan.
func (u *Usecase) Confirm(ctx context.Context, in ConfirmInput) (*ConfirmResult, error) {
	switch in.Purpose {
	case PurposeEMI:
		if in.Role != user.RoleBorrower {
			return nil, ErrWrongRole
		}
	case PurposeFunding:
		if in.Role != user.RoleLender {
			return nil, ErrWrongRole
		}
	default:
		return nil, fmt.Errorf("%w: unknown purpose %q", ErrInvalidInput, in.Purpose)
	}
	if in.LoanID == 0 {
		return nil, fmt.Errorf("%w: loan_id is required", ErrInvalidInput)
	}
	if !in.Failed {
		if in.PaymentID == "" {
			return nil, fmt.Errorf("%w: payment_id is required", ErrInvalidInput)
		}
		if err := u.verify(in); err != nil {
			logger.Warn(ctx, "payment signature rejected", zap.String("payment_id", in.PaymentID), zap.String("order_id", in.OrderID))
			return nil, err
		}
	}

	status := profile.PaymentSuccessful
	if in.Failed {
		status = profile.PaymentFailed
	}
	res := &ConfirmResult{Purpose: in.Purpose, Status: string(status)}

	if in.Purpose == PurposeEMI {
		p, err := u.payments.AddPayment(ctx, in.UID, profileuc.PaymentInput{
			LoanID:        in.LoanID,
			Amount:        in.Amount,
			Status:        status,
			PaymentID:     in.PaymentID,
			FailureReason: in.FailureReason,
			Date:          u.now().UTC(),
		})
		if err != nil {
			return nil, err
		}
		res.Payment = p
		return res, nil
	}

	if in.Failed {
		logger.Info(ctx, "funding payment failed", zap.Uint64("loan_id", in.LoanID), zap.String("reason", in.FailureReason))
		return res, nil
	}
	fr, err := u.funder.Fund(ctx, loanuc.FundInput{LoanID: in.LoanID, LenderUID: in.UID, PaymentID: in.PaymentID})
	if err != nil {
		return nil, err
	}
	res.Funding = fr
	return res, nil
}
