package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/harvestrank-cli/internal/classify"
	"github.com/KaramelBytes/harvestrank-cli/internal/pipeline"
	"github.com/KaramelBytes/harvestrank-cli/internal/product"
	"github.com/KaramelBytes/harvestrank-cli/internal/utils"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is a compact description of one classified batch.
type Summary struct {
	RunID      string             `json:"run_id"`
	Name       string             `json:"name"`
	Output     string             `json:"output,omitempty"`
	Rows       int                `json:"rows"`
	Skipped    int                `json:"skipped"`
	Revenue    RevenueStats       `json:"revenue"`
	Thresholds product.Thresholds `json:"thresholds"`
	Tiers      []TierSummary      `json:"tiers"`
	Charts     []string           `json:"charts,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
}

// RevenueStats describes the monthly revenue column.
type RevenueStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// TierSummary is the membership of one tier.
type TierSummary struct {
	Label    string   `json:"label"`
	Count    int      `json:"count"`
	Products []string `json:"products,omitempty"`
}

// Build summarizes a pipeline result. The first text column, if any, names
// the products listed under each tier.
func Build(res *pipeline.Result) *Summary {
	s := &Summary{
		RunID:      res.RunID,
		Output:     res.Output,
		Thresholds: res.Thresholds,
		Charts:     res.Charts,
		Skipped:    len(res.Faults),
	}
	s.Warnings = lo.Map(res.Faults, func(f product.RowError, _ int) string { return f.Error() })
	t := res.Table
	if t == nil {
		return s
	}
	s.Name = t.Name
	s.Rows = t.Len()
	if revs := t.Revenues(); len(revs) > 0 {
		s.Revenue = RevenueStats{Min: floats.Min(revs), Max: floats.Max(revs), Mean: stat.Mean(revs, nil)}
		if len(revs) > 1 {
			s.Revenue.Std = stat.StdDev(revs, nil)
		}
	}
	nameCol := labelColumn(t)
	for _, c := range classify.Counts(t) {
		ts := TierSummary{Label: c.Tier.String(), Count: c.Count}
		if nameCol >= 0 {
			members := lo.Filter(t.Records, func(r product.Record, _ int) bool { return r.Tier == c.Tier })
			ts.Products = lo.Map(members, func(r product.Record, _ int) string { return strings.TrimSpace(r.Values[nameCol]) })
		}
		s.Tiers = append(s.Tiers, ts)
	}
	return s
}

func labelColumn(t *product.Table) int {
	for i, c := range t.Columns {
		if i == t.DaysCol || i == t.PriceCol || c.Numeric {
			continue
		}
		if c.Name == product.ColumnRevenue || c.Name == product.ColumnTier {
			continue
		}
		return i
	}
	return -1
}

// Number formats v in plain decimal notation rounded to two places.
func Number(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// JSON renders the summary as indented JSON.
func (s *Summary) JSON() ([]byte, error) { return utils.PrettyJSON(s) }

// Markdown renders the summary in sections.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[BATCH SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Run: %s\n", s.RunID))
	if s.Skipped > 0 {
		b.WriteString(fmt.Sprintf("Products: %d (skipped %d)\n", s.Rows, s.Skipped))
	} else {
		b.WriteString(fmt.Sprintf("Products: %d\n", s.Rows))
	}
	if s.Output != "" {
		b.WriteString(fmt.Sprintf("Output: %s\n", s.Output))
	}

	b.WriteString("\n[MONTHLY REVENUE]\n")
	b.WriteString(fmt.Sprintf("- min %s, max %s, mean %s, std %s\n",
		Number(s.Revenue.Min), Number(s.Revenue.Max), Number(s.Revenue.Mean), Number(s.Revenue.Std)))
	b.WriteString(fmt.Sprintf("- thresholds: P20 %s, P40 %s, P60 %s, P80 %s\n",
		Number(s.Thresholds.P20), Number(s.Thresholds.P40), Number(s.Thresholds.P60), Number(s.Thresholds.P80)))

	b.WriteString("\n[PROFITABILITY TIERS]\n")
	for _, t := range s.Tiers {
		b.WriteString(fmt.Sprintf("- %s: %d", t.Label, t.Count))
		if len(t.Products) > 0 {
			shown := t.Products
			if len(shown) > 8 {
				shown = shown[:8]
			}
			b.WriteString(" — ")
			b.WriteString(strings.Join(shown, ", "))
			if len(t.Products) > len(shown) {
				b.WriteString(fmt.Sprintf(" (+%d more)", len(t.Products)-len(shown)))
			}
		}
		b.WriteString("\n")
	}
	if len(s.Charts) > 0 {
		b.WriteString("\n[CHARTS]\n")
		for _, c := range s.Charts {
			b.WriteString("- ")
			b.WriteString(c)
			b.WriteString("\n")
		}
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range s.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}
