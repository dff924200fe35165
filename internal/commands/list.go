package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"riepilogo/internal/core"
)

func newListCommand(env *Env) *cobra.Command {
	var f core.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.Month != 0 {
				if err := core.ValidateMonth(f.Month); err != nil {
					return err
				}
			}

			list, err := env.Expenses.SearchExpenses(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("listing expenses: %w", err)
			}

			currency := env.Summaries.Style().Currency
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tTITLE\tAMOUNT")
			for _, e := range list.Items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Category, e.Title, e.Amount.Format(currency))
			}
			fmt.Fprintf(tw, "\t\t\tTotal (%d)\t%s\n", len(list.Items), list.Total.Format(currency))
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&f.Query, "query", "q", "", "case-insensitive title substring")
	cmd.Flags().StringVar(&f.Category, "category", "", "only this category")
	cmd.Flags().IntVar(&f.Month, "month", 0, "month 1-12 (with --year)")
	cmd.Flags().IntVar(&f.Year, "year", 0, "year")

	return cmd
}
