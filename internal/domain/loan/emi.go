package loan

import "github.com/shopspring/decimal"

var (
	hundred     = decimal.NewFromInt(100)
	twelveHundr = decimal.NewFromInt(1200)
)

// EMI is the equated monthly installment for principal at an annual
// percentage rate over months, rounded to 2 decimals.
//
//	EMI = P·r·(1+r)^n / ((1+r)^n − 1),  r = rate/1200
func EMI(principal, annualRate float64, months int) decimal.Decimal {
	if months <= 0 || principal <= 0 {
		return decimal.Zero
	}
	p := decimal.NewFromFloat(principal)
	n := decimal.NewFromInt(int64(months))
	if annualRate <= 0 {
		return p.Div(n).Round(2)
	}
	r := decimal.NewFromFloat(annualRate).Div(twelveHundr)
	growth := decimal.NewFromInt(1).Add(r).Pow(n)
	return p.Mul(r).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1))).Round(2)
}

// TotalRepayable is EMI times the number of installments.
func TotalRepayable(principal, annualRate float64, months int) decimal.Decimal {
	return EMI(principal, annualRate, months).Mul(decimal.NewFromInt(int64(months)))
}

// Percent returns part/whole as a percentage rounded to 2 decimals.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}
