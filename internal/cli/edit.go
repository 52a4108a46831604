package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ishaan812/spendlog/internal/db"
	"github.com/ishaan812/spendlog/internal/timefmt"
)

var (
	editCategory    string
	editAmount      string
	editDescription string
	editAt          string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a recorded expense",
	Long: `Change the category, amount, description or time of an expense.
The ID may be shortened to any unique prefix, as shown by 'spendlog list'.

Examples:
  spendlog edit 3f2a9c1d --amount 15.75
  spendlog edit 3f2a --category groceries -d "weekly shop"
  spendlog edit 3f2a --at "2026-01-02 19:00"`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editCategory, "category", "", "New category")
	editCmd.Flags().StringVar(&editAmount, "amount", "", "New amount")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description")
	editCmd.Flags().StringVar(&editAt, "at", "", "New time of the expense")
}

func runEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("category") && !flags.Changed("amount") && !flags.Changed("description") && !flags.Changed("at") {
		return fmt.Errorf("nothing to change; use --category, --amount, --description or --at")
	}

	conn, err := openLedger()
	if err != nil {
		return err
	}
	expense, err := db.GetExpense(conn, args[0])
	if err != nil {
		return err
	}

	if flags.Changed("category") {
		if strings.TrimSpace(editCategory) == "" {
			return fmt.Errorf("%w: category is required", db.ErrInvalidExpense)
		}
		expense.Category = strings.TrimSpace(editCategory)
	}
	if flags.Changed("amount") {
		amount, err := db.ParseAmount(editAmount)
		if err != nil {
			return err
		}
		expense.Amount = amount
	}
	if flags.Changed("description") {
		expense.Description = strings.TrimSpace(editDescription)
	}
	if flags.Changed("at") {
		loc, err := displayLocation()
		if err != nil {
			return err
		}
		at, err := parseWhen(editAt, loc)
		if err != nil {
			return err
		}
		expense.RecordedAt = timefmt.FormatInstant(at)
	}

	if err := db.UpdateExpense(conn, expense); err != nil {
		return err
	}
	log.Info().Str("id", expense.ID).Msg("expense updated")

	fmt.Println()
	successColor.Printf("  Updated expense %s\n", shortID(expense.ID))
	dimColor.Printf("  %s  %s  %s\n", expense.Category, money(expense.Amount), expense.Description)
	fmt.Println()
	return nil
}
