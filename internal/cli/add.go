package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ishaan812/spendlog/internal/db"
)

var (
	addAt          string
	addDescription string
)

var addCmd = &cobra.Command{
	Use:   "add [category] [amount] [description]",
	Short: "Record an expense",
	Long: `Record an expense in the active profile's ledger.

Missing arguments are asked for interactively when running in a terminal.
The time defaults to now; use --at to backdate an expense. Times without an
offset are read in your display timezone.

Examples:
  spendlog add food 12.50 "lunch"
  spendlog add travel 40 --at "2026-01-03 09:15"
  spendlog add                       # interactive`,
	Args: cobra.MaximumNArgs(3),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addAt, "at", "", "When the expense happened (default: now)")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description of the expense")
}

func runAdd(cmd *cobra.Command, args []string) error {
	category, amount, description := "", "", addDescription
	if len(args) > 0 {
		category = args[0]
	}
	if len(args) > 1 {
		amount = args[1]
	}
	if len(args) > 2 {
		description = args[2]
	}

	if category == "" || amount == "" {
		if !isInteractive() {
			return fmt.Errorf("category and amount are required")
		}
		var err error
		if category == "" {
			category, err = promptText("Category", "", func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("category is required")
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		if amount == "" {
			amount, err = promptText("Amount", "", func(s string) error {
				_, err := db.ParseAmount(s)
				return err
			})
			if err != nil {
				return err
			}
		}
		if description == "" {
			description, err = promptText("Description", "", nil)
			if err != nil {
				return err
			}
		}
	}

	at := time.Now()
	if addAt != "" {
		loc, err := displayLocation()
		if err != nil {
			return err
		}
		at, err = parseWhen(addAt, loc)
		if err != nil {
			return err
		}
	}

	expense, err := db.NewExpense(category, amount, description, at)
	if err != nil {
		return err
	}

	conn, err := openLedger()
	if err != nil {
		return err
	}
	if err := db.InsertExpense(conn, expense); err != nil {
		return err
	}
	log.Info().Str("id", expense.ID).Str("category", expense.Category).Str("amount", expense.Amount.StringFixed(2)).Msg("expense added")

	shown := expense.RecordedAt
	if prefs, err := cfg.Preferences(); err == nil {
		if s, err := newFormatter().Format(expense.RecordedAt, prefs, nowInstant()); err == nil {
			shown = s
		}
	}

	fmt.Println()
	successColor.Printf("  Added %s to %s\n", money(expense.Amount), expense.Category)
	dimColor.Printf("  ID: %s\n", shortID(expense.ID))
	dimColor.Printf("  When: %s\n", shown)
	fmt.Println()
	return nil
}

// displayLocation is the zone the configured preferences render in.
func displayLocation() (*time.Location, error) {
	prefs, err := cfg.Preferences()
	if err != nil {
		return nil, err
	}
	return newFormatter().Location(prefs)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
