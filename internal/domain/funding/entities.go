package funding

import (
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("funding not found")

// Funding records the lender that financed a loan. At most one per loan.
type Funding struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID    uint64         `gorm:"column:loan_id;not null;uniqueIndex:ux_fundings_loan" json:"loan_id"`
	LenderUID string         `gorm:"column:lender_uid;size:32;not null;index" json:"lender_uid"`
	Amount    float64        `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Rate      float64        `gorm:"column:rate;type:decimal(6,2);not null" json:"rate"`
	PaymentID null.String    `gorm:"column:payment_id;size:64" json:"payment_id"`
	FundedAt  time.Time      `gorm:"column:funded_at;not null" json:"funded_at"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Funding) TableName() string { return "fundings" }
