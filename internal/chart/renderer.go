package chart

// MembershipChart is the input of a tier membership plot.
type MembershipChart struct {
	Title  string
	XLabel string
	YLabel string
	X      []float64
	Curves []Curve
}

// HistogramChart is the input of a revenue frequency plot.
type HistogramChart struct {
	Title  string
	XLabel string
	YLabel string
	Values []float64
	Bins   int
}

// Renderer draws the pipeline's charts. Implementations decide where the
// charts end up; classification never depends on them.
type Renderer interface {
	Membership(c MembershipChart) error
	Histogram(c HistogramChart) error
}

// Artifacts is implemented by renderers that write files.
type Artifacts interface {
	Written() []string
}

// Nop discards every chart.
type Nop struct{}

func (Nop) Membership(MembershipChart) error { return nil }
func (Nop) Histogram(HistogramChart) error   { return nil }
