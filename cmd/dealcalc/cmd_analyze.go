package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/deal"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/store"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/strategy"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/validate"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/valuation"
)

type analyzeOptions struct {
	format      string
	strategy    string
	assumptions string
	all         bool
	db          string
	session     string
}

func newAnalyzeCommand() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <deal.json|->",
		Short: "Appraise, score and project one deal",
		Long: `Analyze runs the full engine on a deal request: comparable appraisal,
the selected strategy's metrics and deal score, and the hold-period
projection for rental strategies.

Assumption fields the request omits come from the built-in defaults or
from --assumptions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "Output format: table or json")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "Override the request's strategy")
	cmd.Flags().StringVar(&opts.assumptions, "assumptions", "", "Hjson assumptions document replacing the defaults")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Score every strategy and print the headlines")
	cmd.Flags().StringVar(&opts.db, "db", "", "SQLite file to store the snapshot in")
	cmd.Flags().StringVar(&opts.session, "session", "cli", "Session ID recorded with the snapshot")

	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, opts *analyzeOptions) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}
	defaults, err := loadAssumptions(opts.assumptions)
	if err != nil {
		return err
	}

	in := deal.Input{Assumptions: defaults}
	if err := decodeInput(cmd, path, &in); err != nil {
		return err
	}
	if opts.strategy != "" {
		s, err := strategy.ParseStrategy(opts.strategy)
		if err != nil {
			return err
		}
		in.Strategy = s
	}
	if opts.all && in.Strategy == "" {
		in.Strategy = strategy.LongTermRental
	}
	if err := validate.New().DealInput(in); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.all {
		return printCompare(out, in, opts.format)
	}

	report, err := deal.Analyze(in)
	if err != nil {
		return err
	}
	if opts.db != "" {
		if err := saveSnapshot(cmd.Context(), opts.db, opts.session, in, report); err != nil {
			return err
		}
	}

	if opts.format == formatJSON {
		return printJSON(out, report)
	}
	printReport(out, report)
	return nil
}

func saveSnapshot(ctx context.Context, dbPath, sessionID string, in deal.Input, report deal.Report) error {
	if ctx == nil {
		ctx = context.Background()
	}
	repo, err := store.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	snap, err := store.NewSnapshot(sessionID, in, report)
	if err != nil {
		return err
	}
	if err := repo.Save(ctx, snap); err != nil {
		return err
	}
	log.Info().Str("id", snap.ID).Str("db", dbPath).Msg("Snapshot saved")
	return nil
}

func printReport(w io.Writer, r deal.Report) {
	fmt.Fprintf(w, "Strategy:     %s\n", r.Strategy)
	fmt.Fprintf(w, "Base price:   %.2f\n", r.BasePrice)
	fmt.Fprintf(w, "Market value: %.2f (confidence %.0f)\n", r.Appraisal.MarketValue, r.Appraisal.Sale.Confidence)
	fmt.Fprintf(w, "ARV:          %.2f\n", r.Appraisal.AfterRepairValue)
	fmt.Fprintf(w, "Market rent:  %.2f\n", r.Appraisal.MarketRent)
	fmt.Fprintf(w, "Deal score:   %d (%s)\n\n", r.Headline.Score, r.Headline.Grade)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE")
	for _, m := range r.Metrics {
		fmt.Fprintf(tw, "%s\t%s\n", m.Name, formatMetric(m))
	}
	tw.Flush()

	if r.Projection != nil {
		fmt.Fprintln(w)
		printSummary(w, r.Projection.Summary)
	}
}

func formatMetric(m strategy.Metric) string {
	switch m.Format {
	case strategy.FormatCurrency:
		return fmt.Sprintf("$%.2f", m.Value)
	case strategy.FormatPercent:
		return fmt.Sprintf("%.2f%%", m.Value*100)
	case strategy.FormatBoolean:
		if m.Bool() {
			return "yes"
		}
		return "no"
	case strategy.FormatText:
		return m.Text
	case strategy.FormatScore:
		return fmt.Sprintf("%.0f", m.Value)
	default:
		return fmt.Sprintf("%.2f", m.Value)
	}
}

func printCompare(w io.Writer, in deal.Input, format string) error {
	appraisal := valuation.Appraise(valuation.AppraisalInput{
		Subject:            in.Subject,
		SaleComps:          in.SaleComps,
		RentalComps:        in.RentalComps,
		ImprovementPremium: in.ImprovementPremium,
	})
	results := strategy.CalculateAll(deal.StrategyInput(in, appraisal))

	headlines := make([]strategy.Headline, 0, len(results))
	for _, s := range strategy.All() {
		headlines = append(headlines, strategy.ExtractHeadline(results[s]))
	}
	if format == formatJSON {
		return printJSON(w, headlines)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tSCORE\tGRADE\tMONTHLY CF\tCASH REQUIRED\tNET PROFIT")
	for _, h := range headlines {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.2f\t%.2f\t%.2f\n",
			h.Strategy, h.Score, h.Grade, h.MonthlyCashFlow, h.CashRequired, h.NetProfit)
	}
	return tw.Flush()
}
