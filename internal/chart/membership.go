package chart

import (
	"github.com/KaramelBytes/harvestrank-cli/internal/product"
	"gonum.org/v1/gonum/floats"
)

// DefaultPoints is the resolution of the revenue axis used for membership curves.
const DefaultPoints = 500

// Curve is the membership degree of one tier sampled over the revenue axis.
type Curve struct {
	Tier     product.Tier
	Vertices [3]float64
	Y        []float64
}

// Universe returns n evenly spaced values from min to max inclusive.
func Universe(min, max float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	return floats.Span(make([]float64, n), min, max)
}

// Triangle evaluates a triangular membership function with feet a, c and peak b.
// A shoulder (a == b or b == c) is 1 at the peak and falls on the other side only.
func Triangle(x []float64, a, b, c float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		switch {
		case v == b:
			y[i] = 1
		case a != b && v > a && v < b:
			y[i] = (v - a) / (b - a)
		case b != c && v > b && v < c:
			y[i] = (c - v) / (c - b)
		}
	}
	return y
}

// Vertices returns the triangle of each tier. The outer tiers extend one unit
// beyond the observed range.
func Vertices(th product.Thresholds, min, max float64) map[product.Tier][3]float64 {
	return map[product.Tier][3]float64{
		product.TierVeryLow:  {min - 1, min, th.P20},
		product.TierLow:      {min, th.P20, th.P40},
		product.TierMedium:   {th.P20, th.P40, th.P60},
		product.TierHigh:     {th.P40, th.P60, th.P80},
		product.TierVeryHigh: {th.P60, th.P80, max + 1},
	}
}

// Curves samples the five tier membership functions over x, lowest tier first.
func Curves(x []float64, th product.Thresholds, min, max float64) []Curve {
	vs := Vertices(th, min, max)
	out := make([]Curve, 0, len(vs))
	for _, tier := range product.Tiers() {
		v := vs[tier]
		out = append(out, Curve{Tier: tier, Vertices: v, Y: Triangle(x, v[0], v[1], v[2])})
	}
	return out
}
