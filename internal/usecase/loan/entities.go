package loan

import (
	"credify-backend/internal/domain/funding"
	"credify-backend/internal/domain/loan"
)

// ApplyInput is accepted from both the application form and the assistant.
type ApplyInput struct {
	BorrowerUID    string
	Amount         float64
	Purpose        string
	Duration       int
	Rate           float64
	IsBusinessLoan bool
	Category       string
	Source         loan.Source
}

type PlaceBidInput struct {
	LoanID    uint64
	LenderUID string
	Rate      float64
	// ExpectedVersion is optional; zero skips the stale-read check.
	ExpectedVersion uint64
}

type FundInput struct {
	LoanID    uint64
	LenderUID string
	PaymentID string
}

type FundResult struct {
	Loan    *loan.Loan       `json:"loan"`
	Funding *funding.Funding `json:"funding"`
}
