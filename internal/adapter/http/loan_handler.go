package http

import (
	"net/http"
	"strings"

	"credify-backend/internal/domain/loan"
	loanuc "credify-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loanuc.Usecase }

func NewLoanHandler(uc *loanuc.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type applyLoanReq struct {
	Amount         float64 `json:"amount" validate:"required,gt=0,dec2"`
	Purpose        string  `json:"purpose" validate:"required,max=255"`
	Duration       int     `json:"duration" validate:"required,oneof=6 12 18 24"`
	Rate           float64 `json:"rate" validate:"required,gt=0,lte=100,dec2"`
	IsBusinessLoan bool    `json:"isBusinessLoan"`
	Category       string  `json:"category" validate:"required_if=IsBusinessLoan true,max=64"`
}

type placeBidReq struct {
	Rate            float64 `json:"rate" validate:"required,gt=0,dec2"`
	ExpectedVersion uint64  `json:"expected_version"`
}

type fundReq struct {
	PaymentID string `json:"payment_id" validate:"max=64"`
}

type loanListResp struct {
	Loans []loan.Loan `json:"loans"`
	Count int         `json:"count"`
}

func (h *LoanHandler) Apply(c echo.Context) error {
	var req applyLoanReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	l, err := h.uc.Apply(c.Request().Context(), loanuc.ApplyInput{
		BorrowerUID:    claims(c).UID,
		Amount:         req.Amount,
		Purpose:        req.Purpose,
		Duration:       req.Duration,
		Rate:           req.Rate,
		IsBusinessLoan: req.IsBusinessLoan,
		Category:       req.Category,
		Source:         loan.SourceForm,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

// List serves the marketplace. Without a status filter lenders see Open and
// Pending loans and everyone else sees all loans.
func (h *LoanHandler) List(c echo.Context) error {
	var (
		f      loan.ListFilter
		status string
	)
	if err := echo.QueryParamsBinder(c).
		String("status", &status).
		Float64("min_amount", &f.MinAmount).
		Float64("max_amount", &f.MaxAmount).
		Int("limit", &f.Limit).
		Int("offset", &f.Offset).
		BindError(); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	for _, s := range strings.Split(status, ",") {
		if s = strings.TrimSpace(s); s != "" {
			f.Statuses = append(f.Statuses, loan.Status(s))
		}
	}

	ctx := c.Request().Context()
	var (
		loans []loan.Loan
		err   error
	)
	if len(f.Statuses) == 0 && claims(c).Role == "lender" {
		loans, err = h.uc.Marketplace(ctx, f)
	} else {
		loans, err = h.uc.List(ctx, f)
	}
	if err != nil {
		return writeError(c, err)
	}
	if loans == nil {
		loans = []loan.Loan{}
	}
	return c.JSON(http.StatusOK, loanListResp{Loans: loans, Count: len(loans)})
}

func (h *LoanHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid loan id")
	}
	l, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) PlaceBid(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid loan id")
	}
	var req placeBidReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	l, err := h.uc.PlaceBid(c.Request().Context(), loanuc.PlaceBidInput{
		LoanID:          id,
		LenderUID:       claims(c).UID,
		Rate:            req.Rate,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) Fund(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid loan id")
	}
	var req fundReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	res, err := h.uc.Fund(c.Request().Context(), loanuc.FundInput{LoanID: id, LenderUID: claims(c).UID, PaymentID: req.PaymentID})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
