package cmd

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/harvestrank-cli/internal/chart"
	cfgpkg "github.com/KaramelBytes/harvestrank-cli/internal/config"
	"github.com/KaramelBytes/harvestrank-cli/internal/pipeline"
	"github.com/KaramelBytes/harvestrank-cli/internal/sheet"
	"github.com/spf13/cobra"
)

var (
	clsOutputPath string
	clsSheetName  string
	clsSheetIndex int
	clsPlotsDir   string
	clsNoPlots    bool
	clsBins       int
	clsPoints     int
)

var classifyCmd = &cobra.Command{
	Use:   "classify [input]",
	Short: "Compute monthly revenue, assign profitability tiers, and save the result",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	addClassifyFlags(classifyCmd)
}

func addClassifyFlags(c *cobra.Command) {
	c.Flags().StringVarP(&clsOutputPath, "output", "o", "", "output spreadsheet (.xlsx or .csv; default from config)")
	c.Flags().StringVar(&clsSheetName, "sheet-name", "", "XLSX: sheet name to read")
	c.Flags().IntVar(&clsSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	c.Flags().StringVar(&clsPlotsDir, "plots-dir", "", "directory for chart PNGs (default from config)")
	c.Flags().BoolVar(&clsNoPlots, "no-plots", false, "skip rendering charts")
	c.Flags().IntVar(&clsBins, "bins", 15, "histogram bin count")
	c.Flags().IntVar(&clsPoints, "points", 500, "membership curve resolution")
}

// settings merges config with any flags changed on cmd. Flags not defined on
// cmd are never reported as changed, so every command can share it.
func settings(cmd *cobra.Command, args []string) (cfgpkg.Global, error) {
	s := *cfgpkg.Defaults()
	if cfg != nil {
		s = *cfg
	}
	if len(args) > 0 {
		s.InputPath = args[0]
	}
	f := cmd.Flags()
	if f.Changed("output") {
		s.OutputPath = clsOutputPath
	}
	if f.Changed("sheet-name") {
		s.SheetName = clsSheetName
	}
	if f.Changed("sheet-index") {
		s.SheetIndex = clsSheetIndex
	}
	if f.Changed("plots-dir") {
		s.PlotsDir = clsPlotsDir
	}
	if f.Changed("no-plots") && clsNoPlots {
		s.PlotsEnabled = false
	}
	if f.Changed("bins") {
		s.HistogramBins = clsBins
	}
	if f.Changed("points") {
		s.CurvePoints = clsPoints
	}
	if err := cfgpkg.Validate(&s); err != nil {
		return s, err
	}
	return s, nil
}

func pipelineOptions(s cfgpkg.Global) pipeline.Options {
	return pipeline.Options{
		Input:  s.InputPath,
		Output: s.OutputPath,
		Sheet:  sheet.Options{SheetName: s.SheetName, SheetIndex: s.SheetIndex},
		Bins:   s.HistogramBins,
		Points: s.CurvePoints,
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	s, err := settings(cmd, args)
	if err != nil {
		return err
	}
	var r chart.Renderer = chart.Nop{}
	if s.PlotsEnabled {
		r = chart.NewPNGRenderer(s.PlotsDir)
	}
	res, err := pipeline.Run(pipelineOptions(s), r, logger)
	printFaults(cmd.ErrOrStderr(), res)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved classified products to %s\n", res.Output)
	return nil
}

func printFaults(w io.Writer, res *pipeline.Result) {
	if res == nil {
		return
	}
	for _, f := range res.Faults {
		fmt.Fprintf(w, "⚠ Warning: skipped %s\n", f.Error())
	}
}
