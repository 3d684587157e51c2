// Package money provides cent-boundary rounding for currency amounts.
//
// All monetary values in Snapbill are non-negative two-decimal amounts
// carried as float64. Whenever a derived value crosses the cent boundary it
// is rounded exactly once, half away from zero, via decimal arithmetic so
// that 2.675 becomes 2.68 rather than the 2.67 a naive float round yields.
package money

import "github.com/shopspring/decimal"

// Round rounds v to 2 decimal places, half away from zero.
func Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Equal reports whether two amounts agree within half a cent.
func Equal(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 0.005
}
