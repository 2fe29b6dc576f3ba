package mysql

import (
	"credify-backend/internal/domain/funding"
	"credify-backend/internal/domain/loan"
	"credify-backend/internal/domain/otp"
	"credify-backend/internal/domain/profile"
	"credify-backend/internal/domain/user"

	"gorm.io/gorm"
)

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&profile.Borrower{}, &profile.Payment{},
		&profile.Lender{}, &profile.Payout{},
		&loan.Loan{}, &loan.Bid{},
		&funding.Funding{},
		&otp.Record{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
