package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ishaan812/spendlog/internal/db"
	"github.com/ishaan812/spendlog/internal/impexp"
)

var (
	exportCategory string
	exportForce    bool
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export expenses to a file",
	Long: `Export expenses to CSV, JSON, YAML or Excel. The format is chosen from
the file extension (.csv, .json, .yaml/.yml, .xlsx). Timestamps are written
as stored, in UTC.

Examples:
  spendlog export expenses.csv
  spendlog export backup.json
  spendlog export food.xlsx --category food`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportCategory, "category", "c", "", "Only export this category")
	exportCmd.Flags().BoolVarP(&exportForce, "force", "f", false, "Overwrite an existing file")
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := impexp.DetectFormat(path); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !exportForce {
		if !confirm(fmt.Sprintf("%s exists. Overwrite", filepath.Base(path))) {
			dimColor.Println("  Canceled. Use --force to overwrite.")
			return nil
		}
	}

	conn, err := openLedger()
	if err != nil {
		return err
	}
	expenses, err := db.ListExpenses(conn, db.ExpenseFilter{Category: exportCategory})
	if err != nil {
		return err
	}

	s := startSpinner(fmt.Sprintf("Exporting %d expenses...", len(expenses)))
	err = impexp.ExportFile(path, expenses, time.Now())
	s.Stop()
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Int("records", len(expenses)).Msg("expenses exported")

	fmt.Println()
	successColor.Printf("  Exported %d expenses to %s\n", len(expenses), path)
	fmt.Println()
	return nil
}
