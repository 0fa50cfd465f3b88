package chart

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/harvestrank-cli/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	DefaultMembershipFile = "membership_functions.png"
	DefaultHistogramFile  = "revenue_histogram.png"
)

var curveColors = []color.Color{
	color.RGBA{B: 255, A: 255},                 // blue
	color.RGBA{G: 128, A: 255},                 // green
	color.RGBA{R: 255, A: 255},                 // red
	color.RGBA{G: 191, B: 191, A: 255},         // cyan
	color.RGBA{R: 191, B: 191, A: 255},         // magenta
	color.RGBA{R: 128, G: 128, B: 128, A: 255}, // spare
}

// PNGRenderer writes each chart as a PNG file under Dir.
type PNGRenderer struct {
	Dir            string
	MembershipFile string
	HistogramFile  string

	written []string
}

// NewPNGRenderer returns a renderer writing the default file names into dir.
func NewPNGRenderer(dir string) *PNGRenderer {
	return &PNGRenderer{Dir: dir, MembershipFile: DefaultMembershipFile, HistogramFile: DefaultHistogramFile}
}

// Written lists the files produced so far.
func (r *PNGRenderer) Written() []string { return append([]string(nil), r.written...) }

func (r *PNGRenderer) Membership(c MembershipChart) error {
	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Y.Min = 0
	p.Y.Max = 1.05
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, cv := range c.Curves {
		if len(cv.Y) != len(c.X) {
			return fmt.Errorf("curve %q has %d points, axis has %d", cv.Tier, len(cv.Y), len(c.X))
		}
		pts := make(plotter.XYs, len(c.X))
		for j := range c.X {
			pts[j].X = c.X[j]
			pts[j].Y = cv.Y[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("membership line %q: %w", cv.Tier, err)
		}
		line.Color = curveColors[i%len(curveColors)]
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(strings.TrimSuffix(cv.Tier.String(), " Profitability"), line)
	}
	return r.save(p, 10*vg.Inch, 8*vg.Inch, r.MembershipFile, DefaultMembershipFile)
}

func (r *PNGRenderer) Histogram(c HistogramChart) error {
	if len(c.Values) == 0 {
		return fmt.Errorf("histogram %q: no values", c.Title)
	}
	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	h, err := plotter.NewHist(plotter.Values(c.Values), c.Bins)
	if err != nil {
		return fmt.Errorf("histogram %q: %w", c.Title, err)
	}
	h.FillColor = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	h.LineStyle.Color = color.Black
	h.LineStyle.Width = vg.Points(0.5)
	p.Add(h)
	return r.save(p, 8*vg.Inch, 6*vg.Inch, r.HistogramFile, DefaultHistogramFile)
}

func (r *PNGRenderer) save(p *plot.Plot, w, h vg.Length, name, fallback string) error {
	if name == "" {
		name = fallback
	}
	dir := r.Dir
	if dir == "" {
		dir = "."
	}
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("create plots dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	r.written = append(r.written, path)
	return nil
}
