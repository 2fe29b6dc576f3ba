package profile

import (
	"time"

	"credify-backend/internal/domain/funding"
	"credify-backend/internal/domain/loan"
	"credify-backend/internal/domain/profile"

	"github.com/volatiletech/null/v8"
)

type PaymentInput struct {
	LoanID        uint64
	Amount        float64
	Status        profile.PaymentStatus
	PaymentID     string
	FailureReason string
	Date          time.Time
}

type PayoutInput struct {
	Amount float64
	Status profile.PayoutStatus
	Date   time.Time
}

type BorrowerStats struct {
	OpenApplications int       `json:"open_applications"`
	ActiveLoans      int       `json:"active_loans"`
	TotalBorrowed    float64   `json:"total_borrowed"`
	TotalRepayable   float64   `json:"total_repayable"`
	TotalPaid        float64   `json:"total_paid"`
	PaidPercent      float64   `json:"paid_percent"`
	NextEMI          float64   `json:"next_emi"`
	NextEMIDate      null.Time `json:"next_emi_date"`
}

type BorrowerDashboard struct {
	Profile  *profile.Borrower `json:"profile"`
	Loans    []loan.Loan       `json:"loans"`
	Payments []profile.Payment `json:"payments"`
	Stats    BorrowerStats     `json:"stats"`
}

type LenderDashboard struct {
	Profile   *profile.Lender   `json:"profile"`
	Portfolio profile.Portfolio `json:"portfolio"`
	Payouts   []profile.Payout  `json:"payouts"`
	Bids      []loan.Bid        `json:"bids"`
	Fundings  []funding.Funding `json:"fundings"`
}
