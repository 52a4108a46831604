package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ishaan812/spendlog/internal/analysis"
	"github.com/ishaan812/spendlog/internal/db"
)

var (
	summaryCategory string
	summaryMonthly  bool
	summaryMarkdown bool
)

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"stats"},
	Short:   "Show spending statistics",
	Long: `Show totals, averages and spend per category.

Months are counted in your display timezone, so an expense late on the 31st
lands in the month you saw it in.

Examples:
  spendlog summary
  spendlog summary --monthly
  spendlog summary --category food --monthly
  spendlog summary --markdown`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVarP(&summaryCategory, "category", "c", "", "Only include this category")
	summaryCmd.Flags().BoolVarP(&summaryMonthly, "monthly", "m", false, "Show spend per month")
	summaryCmd.Flags().BoolVar(&summaryMarkdown, "markdown", false, "Render a formatted report")
}

func runSummary(cmd *cobra.Command, args []string) error {
	conn, err := openLedger()
	if err != nil {
		return err
	}

	var summary analysis.Summary
	var expenses []db.Expense
	if summaryCategory == "" && !summaryMonthly {
		stats, err := db.Statistics(conn)
		if err != nil {
			return err
		}
		cats, err := db.CategoryTotals(conn)
		if err != nil {
			return err
		}
		summary = analysis.FromLedger(stats, cats)
	} else {
		expenses, err = db.ListExpenses(conn, db.ExpenseFilter{Category: summaryCategory})
		if err != nil {
			return err
		}
		summary = analysis.Summarize(expenses)
	}

	if summary.Count == 0 {
		fmt.Println()
		dimColor.Println("  No expenses to summarize.")
		fmt.Println()
		return nil
	}

	var months []analysis.MonthTotal
	if summaryMonthly {
		loc, err := displayLocation()
		if err != nil {
			return err
		}
		months, err = analysis.Monthly(expenses, loc)
		if err != nil {
			return err
		}
	}

	width := terminalWidth()
	if summaryMarkdown {
		fmt.Print(analysis.RenderMarkdown(analysis.Report(summary, months, cfg.Currency), width))
		return nil
	}

	fmt.Println()
	titleColor.Println("  Spending Summary")
	fmt.Println()
	infoColor.Printf("  Expenses:     %d\n", summary.Count)
	infoColor.Printf("  Total:        %s\n", money(summary.Total))
	infoColor.Printf("  Average:      %s\n", money(summary.Average))
	infoColor.Printf("  Smallest:     %s\n", money(summary.Min))
	infoColor.Printf("  Largest:      %s\n", money(summary.Max))
	infoColor.Printf("  Top category: %s\n", summary.TopCategory)

	fmt.Println()
	titleColor.Println("  By Category")
	fmt.Println()
	fmt.Println(analysis.RenderBars(analysis.CategoryBars(summary), width-2, cfg.Currency))

	if summaryMonthly {
		fmt.Println()
		titleColor.Println("  By Month")
		fmt.Println()
		fmt.Println(analysis.RenderBars(analysis.MonthlyBars(months), width-2, cfg.Currency))
	}
	fmt.Println()
	return nil
}
