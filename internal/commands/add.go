package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"riepilogo/internal/core"
)

func newAddCommand(env *Env) *cobra.Command {
	var title, category, amount, date string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := core.ParseDecimalToCents(amount)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amount, err)
			}
			d := env.today()
			if date != "" {
				if d, err = core.ParseDate(date); err != nil {
					return err
				}
			}

			saved, err := env.Expenses.CreateExpense(cmd.Context(), core.Expense{
				Title:    title,
				Category: category,
				Amount:   core.Money{Cents: cents},
				Date:     d,
			})
			if err != nil {
				return fmt.Errorf("adding expense: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s (%s) %s on %s\n",
				saved.ID, saved.Title, saved.Category, saved.Amount.Format(env.Summaries.Style().Currency), saved.Date)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "expense title (required)")
	cmd.Flags().StringVar(&category, "category", "", "expense category (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 12.50 (required)")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
