package revenue

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/harvestrank-cli/internal/product"
)

// DaysPerMonth is the fixed period used to project monthly revenue.
const DaysPerMonth = 28

var (
	// ErrInvalidCycle is returned for a harvest cycle of zero or fewer days.
	ErrInvalidCycle = errors.New("harvest cycle must be a positive number of days")
	// ErrNegativePrice is returned for a unit sale price below zero.
	ErrNegativePrice = errors.New("unit sale price must not be negative")
)

// HarvestsPerMonth returns how many full harvest cycles fit in DaysPerMonth.
func HarvestsPerMonth(days int) (int, error) {
	if days <= 0 {
		return 0, fmt.Errorf("%w (got %d)", ErrInvalidCycle, days)
	}
	return DaysPerMonth / days, nil
}

// MonthlyRevenue is HarvestsPerMonth(days) * price.
func MonthlyRevenue(days int, price float64) (float64, error) {
	n, err := HarvestsPerMonth(days)
	if err != nil {
		return 0, err
	}
	if price < 0 {
		return 0, fmt.Errorf("%w (got %g)", ErrNegativePrice, price)
	}
	return float64(n) * price, nil
}

// Apply sets Revenue on every record of t. Records that fault are removed
// from the table and reported, one RowError each, in table order.
func Apply(t *product.Table) []product.RowError {
	var faults []product.RowError
	kept := t.Records[:0]
	for _, r := range t.Records {
		v, err := MonthlyRevenue(r.Days, r.Price)
		if err != nil {
			faults = append(faults, product.RowError{Row: r.Row, Err: err})
			continue
		}
		r.Revenue = v
		kept = append(kept, r)
	}
	t.Records = kept
	return faults
}
