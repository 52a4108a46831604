package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ishaan812/spendlog/internal/db"
	"github.com/ishaan812/spendlog/internal/impexp"
)

var (
	importDryRun   bool
	importNoBackup bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import expenses from a file",
	Long: `Import expenses from CSV, JSON, YAML or Excel, chosen by file extension.

Columns are matched by name in any case; Category and Amount are required,
Description and Timestamp are optional. Rows with a missing or invalid
timestamp are recorded at the time of import. Rows that cannot be read are
skipped and reported.

A backup of the ledger is taken first unless --no-backup is given.

Examples:
  spendlog import expenses.csv
  spendlog import old.json --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Read the file and report without saving")
	importCmd.Flags().BoolVar(&importNoBackup, "no-backup", false, "Do not take a backup first")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	s := startSpinner("Reading " + path + "...")
	result, err := impexp.ImportFile(path, time.Now())
	s.Stop()
	if err != nil {
		return err
	}

	fmt.Println()
	infoColor.Printf("  Read %d expenses", len(result.Expenses))
	if result.Skipped > 0 {
		warnColor.Printf(", skipped %d rows", result.Skipped)
	}
	fmt.Println()
	if IsVerbose() || importDryRun {
		for _, p := range result.Problems {
			dimColor.Printf("    %s\n", p)
		}
	}

	if importDryRun || len(result.Expenses) == 0 {
		if len(result.Expenses) == 0 {
			dimColor.Println("  Nothing to import.")
		}
		fmt.Println()
		return nil
	}

	if !importNoBackup {
		autoBackup("Before importing " + path)
	}

	conn, err := openLedger()
	if err != nil {
		return err
	}
	if err := db.InsertExpenses(conn, result.Expenses); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("imported", len(result.Expenses)).Int("skipped", result.Skipped).Msg("expenses imported")

	successColor.Printf("  Imported %d expenses\n", len(result.Expenses))
	fmt.Println()
	return nil
}
