package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/store"
)

func newHistoryCommand() *cobra.Command {
	var (
		format  string
		db      string
		session string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List snapshots saved by analyze --db",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			repo, err := store.OpenSQLite(db)
			if err != nil {
				return err
			}
			defer repo.Close()

			snaps, err := repo.ListBySession(cmd.Context(), session, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if format == formatJSON {
				return printJSON(out, snaps)
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tSTRATEGY\tSCORE\tGRADE")
			for _, s := range snaps {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", s.ID, s.CreatedAt.Format(time.RFC3339), s.Strategy, s.Score, s.Grade)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	cmd.Flags().StringVar(&db, "db", "dealscope.db", "SQLite snapshot file")
	cmd.Flags().StringVar(&session, "session", "cli", "Session to list")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum snapshots")
	return cmd
}
