package mysql

import (
	"context"

	fundingDomain "credify-backend/internal/domain/funding"

	"gorm.io/gorm"
)

type FundingRepository struct{ db *gorm.DB }

func NewFundingRepository(db *gorm.DB) *FundingRepository { return &FundingRepository{db: db} }

func (r *FundingRepository) Create(ctx context.Context, f *fundingDomain.Funding) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FundingRepository) GetByLoanID(ctx context.Context, loanID uint64) (*fundingDomain.Funding, error) {
	var out fundingDomain.Funding
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error, fundingDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *FundingRepository) ListByLender(ctx context.Context, lenderUID string) ([]fundingDomain.Funding, error) {
	out := []fundingDomain.Funding{}
	res := r.db.WithContext(ctx).Where("lender_uid = ?", lenderUID).Order("id ASC").Find(&out)
	return out, res.Error
}
