package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/projection"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/validate"
)

func newProjectCommand() *cobra.Command {
	var (
		format string
		years  int
	)
	cmd := &cobra.Command{
		Use:   "project <projection.json|->",
		Short: "Project a rental over the hold period and solve IRR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			var in projection.Input
			if err := decodeInput(cmd, args[0], &in); err != nil {
				return err
			}
			if years > 0 {
				in.Years = years
			}
			if err := validate.New().Projection(in); err != nil {
				return err
			}

			res := projection.Project(in)
			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printProjection(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	cmd.Flags().IntVarP(&years, "years", "y", 0, "Hold years (overrides the input)")
	return cmd
}

func printProjection(w io.Writer, res projection.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tVALUE\tGROSS RENT\tNOI\tDEBT\tCASH FLOW\tBALANCE\tEQUITY")
	for _, y := range res.Years {
		fmt.Fprintf(tw, "%d\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\n",
			y.Year, y.PropertyValue, y.GrossRent, y.NOI, y.DebtService, y.CashFlow, y.LoanBalance, y.TotalEquity)
	}
	tw.Flush()
	fmt.Fprintln(w)
	printSummary(w, res.Summary)
}

func printSummary(w io.Writer, s projection.Summary) {
	irr := fmt.Sprintf("%.2f%%", s.IRR*100)
	if !s.IRRConverged {
		irr += " (not converged)"
	}
	fmt.Fprintf(w, "Hold:            %d years\n", s.Years)
	fmt.Fprintf(w, "Cash invested:   %.2f\n", s.TotalCashInvested)
	fmt.Fprintf(w, "Total cash flow: %.2f\n", s.TotalCashFlow)
	fmt.Fprintf(w, "Final equity:    %.2f\n", s.FinalEquity)
	fmt.Fprintf(w, "Equity multiple: %.2fx\n", s.EquityMultiple)
	fmt.Fprintf(w, "IRR:             %s\n", irr)
}
