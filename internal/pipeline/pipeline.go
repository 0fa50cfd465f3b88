package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/KaramelBytes/harvestrank-cli/internal/chart"
	"github.com/KaramelBytes/harvestrank-cli/internal/classify"
	"github.com/KaramelBytes/harvestrank-cli/internal/product"
	"github.com/KaramelBytes/harvestrank-cli/internal/revenue"
	"github.com/KaramelBytes/harvestrank-cli/internal/sheet"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultInput  = "lista-de-produtos.xlsx"
	DefaultOutput = "plantas_classificadas.xlsx"
	DefaultBins   = 15
)

// Options configures one batch run.
type Options struct {
	Input  string
	Output string
	Sheet  sheet.Options
	// Bins is the histogram bin count.
	Bins int
	// Points is the resolution of the membership curves.
	Points int
	// DryRun skips writing the output file.
	DryRun bool
}

// Result describes a completed run.
type Result struct {
	RunID      string
	Table      *product.Table
	Thresholds product.Thresholds
	Faults     []product.RowError
	Output     string
	Charts     []string
}

// Run executes load, revenue, classify, render and save in order. Any stage
// error ends the run; per-row faults are collected in the result instead.
func Run(opt Options, r chart.Renderer, logger *slog.Logger) (*Result, error) {
	if opt.Input == "" {
		opt.Input = DefaultInput
	}
	if opt.Output == "" {
		opt.Output = DefaultOutput
	}
	if opt.Bins <= 0 {
		opt.Bins = DefaultBins
	}
	if opt.Points < 2 {
		opt.Points = chart.DefaultPoints
	}
	if r == nil {
		r = chart.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	res := &Result{RunID: uuid.NewString()}
	log := logger.With(slog.String("run_id", res.RunID))

	t, faults, err := sheet.Load(opt.Input, opt.Sheet)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	res.Table = t
	res.Faults = faults
	log.Debug("loaded products", slog.String("stage", "load"), slog.String("input", opt.Input),
		slog.Int("records", t.Len()), slog.Int("faults", len(faults)))

	res.Faults = append(res.Faults, revenue.Apply(t)...)
	log.Debug("computed monthly revenue", slog.String("stage", "revenue"), slog.Int("records", t.Len()))
	for _, f := range res.Faults {
		log.Warn("skipped product row", slog.Int("row", f.Row), slog.String("error", f.Err.Error()))
	}
	if t.Len() == 0 {
		return res, fmt.Errorf("classify %s: %w", opt.Input, product.ErrEmptyTable)
	}

	th, err := classify.Apply(t)
	if err != nil {
		return res, fmt.Errorf("classify: %w", err)
	}
	res.Thresholds = th
	log.Debug("classified products", slog.String("stage", "classify"),
		slog.Float64("p20", th.P20), slog.Float64("p40", th.P40), slog.Float64("p60", th.P60), slog.Float64("p80", th.P80))

	if err := render(r, t, th, opt); err != nil {
		return res, fmt.Errorf("render charts: %w", err)
	}
	if a, ok := r.(chart.Artifacts); ok {
		res.Charts = a.Written()
	}
	for _, c := range res.Charts {
		log.Debug("wrote chart", slog.String("stage", "render"), slog.String("path", c))
	}

	if opt.DryRun {
		log.Debug("dry run, output not written", slog.String("stage", "save"))
		return res, nil
	}
	if err := sheet.Save(opt.Output, t); err != nil {
		return res, fmt.Errorf("save %s: %w", opt.Output, err)
	}
	res.Output = opt.Output
	log.Info("saved classified products", slog.String("stage", "save"), slog.String("output", opt.Output),
		slog.Int("records", t.Len()))
	return res, nil
}

func render(r chart.Renderer, t *product.Table, th product.Thresholds, opt Options) error {
	revs := t.Revenues()
	lowest, highest := floats.Min(revs), floats.Max(revs)
	x := chart.Universe(lowest, highest, opt.Points)
	err := r.Membership(chart.MembershipChart{
		Title:  "Membership Functions for Profitability",
		XLabel: product.ColumnRevenue,
		YLabel: "Membership Degree",
		X:      x,
		Curves: chart.Curves(x, th, lowest, highest),
	})
	if err != nil {
		return err
	}
	return r.Histogram(chart.HistogramChart{
		Title:  "Monthly Revenue Distribution",
		XLabel: product.ColumnRevenue,
		YLabel: "Frequency",
		Values: revs,
		Bins:   opt.Bins,
	})
}
