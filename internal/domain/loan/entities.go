package loan

import (
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

type Status string

const (
	StatusOpen    Status = "Open"
	StatusPending Status = "Pending"
	StatusFunded  Status = "Funded"
)

// Biddable reports whether lenders may still undercut the rate.
func (s Status) Biddable() bool { return s == StatusOpen || s == StatusPending }

type Source string

const (
	SourceForm      Source = "form"
	SourceAssistant Source = "assistant"
)

// Durations are the repayment terms, in months, a borrower can pick.
var Durations = []int{6, 12, 18, 24}

// BusinessCategories is the fixed list offered by the application form.
var BusinessCategories = []string{
	"medical", "schools", "colleges", "hospitals", "saloons", "grocery",
	"restaurants", "garments", "electronics", "pharmacy", "stationery", "cafes",
}

func ValidDuration(months int) bool {
	for _, d := range Durations {
		if d == months {
			return true
		}
	}
	return false
}

func ValidCategory(c string) bool {
	for _, v := range BusinessCategories {
		if v == c {
			return true
		}
	}
	return false
}

type Loan struct {
	ID             uint64         `gorm:"primaryKey;column:id" json:"id"`
	BorrowerUID    string         `gorm:"size:32;index:idx_loans_borrower" json:"borrower_uid,omitempty"`
	Amount         float64        `gorm:"type:decimal(18,2);not null" json:"amount"`
	Purpose        string         `gorm:"size:255;not null" json:"purpose"`
	Duration       int            `gorm:"not null" json:"duration"`
	MaxRate        float64        `gorm:"type:decimal(6,2);not null" json:"max_rate"`
	Rate           float64        `gorm:"type:decimal(6,2);not null" json:"rate"`
	IsBusinessLoan bool           `gorm:"not null;default:false" json:"is_business_loan"`
	Category       null.String    `gorm:"size:64" json:"category"`
	Status         Status         `gorm:"size:16;not null;index:idx_loans_status" json:"status"`
	Source         Source         `gorm:"size:16;not null" json:"source"`
	Version        uint64         `gorm:"not null;default:1" json:"version"`
	Bids           []Bid          `gorm:"foreignKey:LoanID" json:"bids"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// BidTimeLayout matches the locale string the dashboards show next to a bid.
const BidTimeLayout = "02/01/2006, 15:04:05"

type Bid struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanID    uint64    `gorm:"not null;index:idx_bids_loan" json:"loan_id"`
	LenderUID string    `gorm:"size:32;index:idx_bids_lender" json:"lender_uid,omitempty"`
	Rate      float64   `gorm:"type:decimal(6,2);not null" json:"rate"`
	Time      string    `gorm:"size:32;not null" json:"time"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Bid) TableName() string { return "bids" }

type ListFilter struct {
	Statuses  []Status
	MinAmount float64
	MaxAmount float64
	Limit     int
	Offset    int
}
