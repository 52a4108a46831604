package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ishaan812/spendlog/internal/db"
)

var (
	clearForce    bool
	clearNoBackup bool
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every expense in the ledger",
	Long: `Delete all expenses from the ledger of the current profile.

A backup is taken first unless --no-backup is given; use
'spendlog backup restore' to undo.

Examples:
  spendlog clear                    # Clear current profile (with confirmation)
  spendlog clear --force            # Skip confirmation
  spendlog clear --profile work     # Clear specific profile`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "Skip confirmation prompt")
	clearCmd.Flags().BoolVar(&clearNoBackup, "no-backup", false, "Do not take a backup first")
}

func runClear(cmd *cobra.Command, args []string) error {
	conn, err := openLedger()
	if err != nil {
		return err
	}
	count, err := db.CountExpenses(conn)
	if err != nil {
		return err
	}

	fmt.Println()
	warnColor.Printf("  Warning: Clear Ledger\n\n")
	dimColor.Printf("  Profile: %s\n", db.GetActiveProfile())
	dimColor.Printf("  Ledger:  %s\n\n", db.ActivePath())
	fmt.Printf("    %d expenses will be deleted\n", count)
	fmt.Println()

	if count == 0 {
		dimColor.Println("  Ledger is already empty.")
		fmt.Println()
		return nil
	}

	if !clearForce && !confirm("Are you sure you want to delete all expenses") {
		dimColor.Println("  Canceled.")
		fmt.Println()
		return nil
	}

	if !clearNoBackup {
		autoBackup("Before clearing all expenses")
	}

	removed, err := db.ClearExpenses(conn)
	if err != nil {
		return err
	}
	if err := db.Checkpoint(conn); err != nil {
		VerboseLog("Warning: %v", err)
	}
	log.Info().Int64("removed", removed).Msg("ledger cleared")

	fmt.Println()
	successColor.Printf("  Deleted %d expenses\n", removed)
	fmt.Println()
	return nil
}
