package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/calc"
)

func newAmortizeCommand() *cobra.Command {
	var (
		format    string
		principal float64
		rate      float64
		term      int
	)
	cmd := &cobra.Command{
		Use:   "amortize",
		Short: "Print the payment and yearly schedule of a fixed-rate loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if principal <= 0 || term <= 0 {
				return fmt.Errorf("--principal and --term must be positive")
			}

			schedule := calc.Schedule(principal, rate, term)
			out := cmd.OutOrStdout()
			if format == formatJSON {
				return printJSON(out, schedule)
			}

			fmt.Fprintf(out, "Monthly payment: %.2f\n\n", calc.MonthlyPayment(principal, rate, term))
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "YEAR\tPRINCIPAL\tINTEREST\tBALANCE")
			for _, y := range schedule {
				fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\n", y.Year, y.Principal, y.Interest, y.EndingBalance)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	cmd.Flags().Float64VarP(&principal, "principal", "p", 0, "Loan principal")
	cmd.Flags().Float64VarP(&rate, "rate", "r", 0.07, "Annual interest rate as a decimal")
	cmd.Flags().IntVarP(&term, "term", "t", 30, "Term in years")
	return cmd
}
