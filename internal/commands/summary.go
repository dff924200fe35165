package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"riepilogo/internal/chart"
	"riepilogo/internal/core"
	"riepilogo/internal/services"
)

func newSummaryCommand(env *Env) *cobra.Command {
	var month, year, compareMonth, compareYear int
	var svgPath string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Compare a month with another, by category",
		Long: "Prints per-category totals of a month against a compare month " +
			"(the previous month unless --compare-month and --compare-year are both set). " +
			"With --svg the chart document is written to a file as well.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := env.today()
			if !cmd.Flags().Changed("year") {
				year = today.Year()
			}
			if !cmd.Flags().Changed("month") {
				month = today.Month()
			}

			req := services.NewSummaryRequest(year, month)
			cmpSet := cmd.Flags().Changed("compare-month") || cmd.Flags().Changed("compare-year")
			if cmpSet {
				if !cmd.Flags().Changed("compare-month") || !cmd.Flags().Changed("compare-year") {
					return fmt.Errorf("--compare-month and --compare-year must be given together")
				}
				if err := core.ValidateMonth(compareMonth); err != nil {
					return fmt.Errorf("compare month: %w", err)
				}
				req.CompareYear, req.CompareMonth = compareYear, compareMonth
			}

			sum, err := env.Summaries.Build(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("building summary: %w", err)
			}

			currency := env.Summaries.Style().Currency
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s vs %s\n\n",
				chart.MonthLabel(req.Year, req.Month), chart.MonthLabel(req.CompareYear, req.CompareMonth))

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "CATEGORY\tPRIMARY\tCOMPARE\tDIFF\tCHANGE\t")
			for _, row := range sum.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", row.Category,
					row.Primary.Format(currency), row.Compare.Format(currency), row.Diff.Format(currency), row.Change)
			}
			t := sum.Totals
			fmt.Fprintf(tw, "Total\t%s\t%s\t%s\t%s\t\n",
				t.Primary.Format(currency), t.Compare.Format(currency), t.Diff.Format(currency), t.Change)
			if err := tw.Flush(); err != nil {
				return err
			}

			if svgPath != "" {
				if err := os.WriteFile(svgPath, []byte(sum.Document()), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", svgPath, err)
				}
				fmt.Fprintf(out, "\nWrote %s\n", svgPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default current)")
	cmd.Flags().IntVar(&year, "year", 0, "year (default current)")
	cmd.Flags().IntVar(&compareMonth, "compare-month", 0, "compare month 1-12")
	cmd.Flags().IntVar(&compareYear, "compare-year", 0, "compare year")
	cmd.Flags().StringVar(&svgPath, "svg", "", "also write the chart to this file")

	return cmd
}
