package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/validate"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/valuation"
)

func newAppraiseCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "appraise <comps.json|->",
		Short: "Value a property from sale and rental comparables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			var in valuation.AppraisalInput
			if err := decodeInput(cmd, args[0], &in); err != nil {
				return err
			}
			if err := validate.New().Appraisal(in); err != nil {
				return err
			}

			a := valuation.Appraise(in)
			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), a)
			}
			printAppraisal(cmd.OutOrStdout(), a)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	return cmd
}

func printAppraisal(w io.Writer, a valuation.Appraisal) {
	fmt.Fprintf(w, "Market value: %.2f  [%.2f - %.2f]  confidence %.0f\n", a.MarketValue, a.Sale.Low, a.Sale.High, a.Sale.Confidence)
	fmt.Fprintf(w, "ARV:          %.2f\n", a.AfterRepairValue)
	fmt.Fprintf(w, "Market rent:  %.2f  [%.2f - %.2f]  confidence %.0f\n\n", a.MarketRent, a.Rent.Low, a.Rent.High, a.Rent.Confidence)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COMP\tSIMILARITY\tADJUSTMENT\tADJUSTED\tWEIGHT")
	for _, adj := range a.Sale.Adjustments {
		fmt.Fprintf(tw, "%s\t%.1f\t%.2f\t%.2f\t%.3f\n", adj.CompID, adj.Similarity.Overall, adj.TotalAdjustment, adj.AdjustedPrice, adj.Weight)
	}
	for _, adj := range a.Rent.Adjustments {
		fmt.Fprintf(tw, "%s (rent)\t%.1f\t%.2f\t%.2f\t%.3f\n", adj.CompID, adj.Similarity.Overall, adj.TotalAdjustment, adj.AdjustedPrice, adj.Weight)
	}
	tw.Flush()
}
