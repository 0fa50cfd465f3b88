package classify

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/harvestrank-cli/internal/product"
	"github.com/samber/lo"
)

// ErrEmpty is returned when a percentile is requested over no values.
var ErrEmpty = errors.New("percentile of empty set is undefined")

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between closest ranks. values is not modified.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmpty
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, fmt.Errorf("percentile out of range: %v", p)
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return quantile(sorted, p/100), nil
}

func quantile(sorted []float64, q float64) float64 {
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	below := int(math.Floor(pos))
	above := int(math.Ceil(pos))
	if below == above {
		return sorted[below]
	}
	w := pos - float64(below)
	return sorted[below]*(1-w) + sorted[above]*w
}

// ComputeThresholds returns the 20th, 40th, 60th and 80th percentiles.
func ComputeThresholds(values []float64) (product.Thresholds, error) {
	if len(values) == 0 {
		return product.Thresholds{}, ErrEmpty
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return product.Thresholds{}, fmt.Errorf("non-finite revenue value: %v", v)
		}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return product.Thresholds{
		P20: quantile(sorted, 0.2),
		P40: quantile(sorted, 0.4),
		P60: quantile(sorted, 0.6),
		P80: quantile(sorted, 0.8),
	}, nil
}

// Tier buckets a revenue value. Values equal to a threshold fall into the lower tier.
func Tier(revenue float64, th product.Thresholds) product.Tier {
	switch {
	case revenue <= th.P20:
		return product.TierVeryLow
	case revenue <= th.P40:
		return product.TierLow
	case revenue <= th.P60:
		return product.TierMedium
	case revenue <= th.P80:
		return product.TierHigh
	default:
		return product.TierVeryHigh
	}
}

// Apply computes thresholds over the whole table and labels every record.
func Apply(t *product.Table) (product.Thresholds, error) {
	if t.Len() == 0 {
		return product.Thresholds{}, product.ErrEmptyTable
	}
	th, err := ComputeThresholds(t.Revenues())
	if err != nil {
		return product.Thresholds{}, fmt.Errorf("compute thresholds: %w", err)
	}
	for i := range t.Records {
		t.Records[i].Tier = Tier(t.Records[i].Revenue, th)
	}
	return th, nil
}

// TierCount is the number of records in one tier.
type TierCount struct {
	Tier  product.Tier
	Count int
}

// Counts returns the size of every tier, lowest first, including empty tiers.
func Counts(t *product.Table) []TierCount {
	byTier := lo.CountValuesBy(t.Records, func(r product.Record) product.Tier { return r.Tier })
	return lo.Map(product.Tiers(), func(tier product.Tier, _ int) TierCount {
		return TierCount{Tier: tier, Count: byTier[tier]}
	})
}
