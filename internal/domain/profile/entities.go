package profile

import (
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
)

var ErrNotFound = errors.New("profile not found")

type PaymentStatus string

const (
	PaymentSuccessful PaymentStatus = "Successful"
	PaymentFailed     PaymentStatus = "Failed"
	PaymentPending    PaymentStatus = "Pending"
)

type PayoutStatus string

const (
	PayoutSettled PayoutStatus = "Settled"
	PayoutPending PayoutStatus = "Pending"
	PayoutFailed  PayoutStatus = "Failed"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentSuccessful || s == PaymentFailed || s == PaymentPending
}

func (s PayoutStatus) Valid() bool {
	return s == PayoutSettled || s == PayoutPending || s == PayoutFailed
}

// LoanDetails is the summary of the borrower's active loan.
type LoanDetails struct {
	LoanID          uint64    `gorm:"column:loan_id" json:"loan_id"`
	Principal       float64   `gorm:"column:principal;type:decimal(18,2)" json:"principal"`
	InterestRate    float64   `gorm:"column:interest_rate;type:decimal(6,2)" json:"interest_rate"`
	Duration        int       `gorm:"column:duration" json:"duration"`
	Purpose         string    `gorm:"column:purpose;size:255" json:"purpose"`
	StartDate       null.Time `gorm:"column:start_date" json:"start_date"`
	TotalAmount     float64   `gorm:"column:total_amount;type:decimal(18,2)" json:"total_amount"`
	MonthlyEMI      float64   `gorm:"column:monthly_emi;type:decimal(18,2)" json:"monthly_emi"`
	PaidMonths      int       `gorm:"column:paid_months" json:"paid_months"`
	RemainingAmount float64   `gorm:"column:remaining_amount;type:decimal(18,2)" json:"remaining_amount"`
	NextEMIDate     null.Time `gorm:"column:next_emi_date" json:"next_emi_date"`
}

type Borrower struct {
	ID           uint64      `gorm:"primaryKey;column:id" json:"-"`
	UID          string      `gorm:"size:32;not null;uniqueIndex:ux_borrowers_uid" json:"uid"`
	Email        string      `gorm:"size:255;not null;uniqueIndex:ux_borrowers_email" json:"email"`
	DisplayName  string      `gorm:"size:128" json:"display_name"`
	KycCompleted bool        `gorm:"not null;default:false" json:"kyc_completed"`
	LoanDetails  LoanDetails `gorm:"embedded;embeddedPrefix:loan_" json:"loan_details"`
	Payments     []Payment   `gorm:"foreignKey:BorrowerUID;references:UID" json:"payments"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Borrower) TableName() string { return "borrowers" }

type Payment struct {
	ID            uint64        `gorm:"primaryKey;column:id" json:"-"`
	BorrowerUID   string        `gorm:"size:32;not null;index" json:"-"`
	LoanID        uint64        `gorm:"not null;default:0" json:"loan_id,omitempty"`
	Date          time.Time     `gorm:"not null" json:"date"`
	Amount        float64       `gorm:"type:decimal(18,2);not null" json:"amount"`
	Status        PaymentStatus `gorm:"size:16;not null" json:"status"`
	PaymentID     null.String   `gorm:"size:64" json:"payment_id"`
	FailureReason null.String   `gorm:"size:255" json:"failure_reason"`
}

func (Payment) TableName() string { return "borrower_payments" }

type Portfolio struct {
	TotalInvestment float64 `gorm:"column:total_investment;type:decimal(18,2)" json:"total_investment"`
	ActiveLoans     int     `gorm:"column:active_loans" json:"active_loans"`
	AvgInterestRate float64 `gorm:"column:avg_interest_rate;type:decimal(6,2)" json:"avg_interest_rate"`
	TotalReturns    float64 `gorm:"column:total_returns;type:decimal(18,2)" json:"total_returns"`
}

type Lender struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	UID          string    `gorm:"size:32;not null;uniqueIndex:ux_lenders_uid" json:"uid"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:ux_lenders_email" json:"email"`
	DisplayName  string    `gorm:"size:128" json:"display_name"`
	KycCompleted bool      `gorm:"not null;default:false" json:"kyc_completed"`
	Portfolio    Portfolio `gorm:"embedded;embeddedPrefix:portfolio_" json:"portfolio"`
	Payouts      []Payout  `gorm:"foreignKey:LenderUID;references:UID" json:"payouts"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Lender) TableName() string { return "lenders" }

type Payout struct {
	ID        uint64       `gorm:"primaryKey;column:id" json:"-"`
	LenderUID string       `gorm:"size:32;not null;index" json:"-"`
	Date      time.Time    `gorm:"not null" json:"date"`
	Amount    float64      `gorm:"type:decimal(18,2);not null" json:"amount"`
	Status    PayoutStatus `gorm:"size:16;not null" json:"status"`
}

func (Payout) TableName() string { return "lender_payouts" }
