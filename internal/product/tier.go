package product

import "fmt"

// Tier is an ordinal profitability bucket. Lower values mean lower revenue.
type Tier int

const (
	TierUnset Tier = iota
	TierVeryLow
	TierLow
	TierMedium
	TierHigh
	TierVeryHigh
)

var tierLabels = map[Tier]string{
	TierVeryLow:  "Very Low Profitability",
	TierLow:      "Low Profitability",
	TierMedium:   "Medium Profitability",
	TierHigh:     "High Profitability",
	TierVeryHigh: "Very High Profitability",
}

// Tiers returns the five tiers from lowest to highest.
func Tiers() []Tier {
	return []Tier{TierVeryLow, TierLow, TierMedium, TierHigh, TierVeryHigh}
}

func (t Tier) String() string {
	if l, ok := tierLabels[t]; ok {
		return l
	}
	return ""
}

// Rank is the 1-based ordinal of the tier, 0 when unset.
func (t Tier) Rank() int { return int(t) }

// ParseTier maps a label back to its tier.
func ParseTier(label string) (Tier, error) {
	for t, l := range tierLabels {
		if l == label {
			return t, nil
		}
	}
	return TierUnset, fmt.Errorf("unknown profitability tier: %q", label)
}
