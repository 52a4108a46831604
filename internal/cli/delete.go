package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ishaan812/spendlog/internal/db"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an expense",
	Long: `Delete one expense. The ID may be shortened to any unique prefix.

Examples:
  spendlog delete 3f2a9c1d
  spendlog delete 3f2a --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	conn, err := openLedger()
	if err != nil {
		return err
	}
	expense, err := db.GetExpense(conn, args[0])
	if err != nil {
		return err
	}

	fmt.Println()
	infoColor.Printf("  %s  %s  %s  %s\n", shortID(expense.ID), expense.Category, money(expense.Amount), expense.Description)
	fmt.Println()

	if !deleteForce && !confirm("Delete this expense") {
		dimColor.Println("  Canceled.")
		fmt.Println()
		return nil
	}

	found, err := db.DeleteExpense(conn, expense.ID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", db.ErrExpenseNotFound, expense.ID)
	}
	log.Info().Str("id", expense.ID).Msg("expense deleted")

	successColor.Printf("  Deleted expense %s\n", shortID(expense.ID))
	fmt.Println()
	return nil
}
