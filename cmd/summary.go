package cmd

import (
	"fmt"

	"github.com/KaramelBytes/harvestrank-cli/internal/chart"
	"github.com/KaramelBytes/harvestrank-cli/internal/pipeline"
	"github.com/KaramelBytes/harvestrank-cli/internal/report"
	"github.com/spf13/cobra"
)

var sumJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary [input]",
	Short: "Classify without saving and print revenue statistics and tier membership",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings(cmd, args)
		if err != nil {
			return err
		}
		opt := pipelineOptions(s)
		opt.DryRun = true
		res, err := pipeline.Run(opt, chart.Nop{}, logger)
		printFaults(cmd.ErrOrStderr(), res)
		if err != nil {
			return err
		}
		sum := report.Build(res)
		if sumJSON {
			b, err := sum.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), sum.Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().BoolVar(&sumJSON, "json", false, "print the summary as JSON")
	summaryCmd.Flags().StringVar(&clsSheetName, "sheet-name", "", "XLSX: sheet name to read")
	summaryCmd.Flags().IntVar(&clsSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
