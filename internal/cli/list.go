package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ishaan812/spendlog/internal/config"
	"github.com/ishaan812/spendlog/internal/db"
	"github.com/ishaan812/spendlog/internal/timefmt"
)

var (
	listCategory string
	listSince    string
	listLimit    int
	listMode     string
	listZone     string
	listPattern  string
	listRelative bool
	listAbsolute bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded expenses",
	Long: `List expenses, newest first, with timestamps shown using your display
preferences. Flags override the preferences for this run only.

Examples:
  spendlog list
  spendlog list --category food --limit 10
  spendlog list --since 2026-01-01
  spendlog list --mode utc
  spendlog list --zone Asia/Tokyo --relative
  spendlog list --mode custom --pattern "%d %b %Y %H:%M"`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only show this category")
	listCmd.Flags().StringVar(&listSince, "since", "", "Only show expenses at or after this time, e.g. 2026-01-01")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Show at most this many expenses (0 = all)")
	listCmd.Flags().StringVar(&listMode, "mode", "", "Timestamp mode: local, utc or custom")
	listCmd.Flags().StringVar(&listZone, "zone", "", "Display timezone (IANA name, or 'system')")
	listCmd.Flags().StringVar(&listPattern, "pattern", "", "Pattern for custom mode, e.g. %Y-%m-%d")
	listCmd.Flags().BoolVar(&listRelative, "relative", false, "Append relative time")
	listCmd.Flags().BoolVar(&listAbsolute, "no-relative", false, "Do not append relative time")
}

// listPreferences applies the command-line overrides to the configured
// preferences.
func listPreferences(cmd *cobra.Command) (timefmt.Preferences, error) {
	prefs, err := cfg.Preferences()
	if err != nil {
		return timefmt.Preferences{}, err
	}
	if cmd.Flags().Changed("mode") {
		mode, err := timefmt.ParseMode(listMode)
		if err != nil {
			return timefmt.Preferences{}, err
		}
		prefs.Mode = mode
		if mode == timefmt.ModeCustom && prefs.CustomPattern == "" {
			prefs.CustomPattern = cfg.Display.CustomFormat
		}
	}
	if cmd.Flags().Changed("zone") {
		prefs.ZoneIdentifier = config.ZoneIdentifier(listZone)
	}
	if cmd.Flags().Changed("pattern") {
		prefs.CustomPattern = listPattern
		if !cmd.Flags().Changed("mode") {
			prefs.Mode = timefmt.ModeCustom
		}
	}
	if listRelative {
		prefs.ShowRelative = true
	}
	if listAbsolute {
		prefs.ShowRelative = false
	}
	return prefs, prefs.Validate()
}

func runList(cmd *cobra.Command, args []string) error {
	prefs, err := listPreferences(cmd)
	if err != nil {
		return err
	}
	filter := db.ExpenseFilter{Category: listCategory, Limit: listLimit}
	if listSince != "" {
		loc, err := newFormatter().Location(prefs)
		if err != nil {
			return err
		}
		since, err := parseWhen(listSince, loc)
		if err != nil {
			return err
		}
		filter.Since = timefmt.FormatInstant(since)
	}

	conn, err := openLedger()
	if err != nil {
		return err
	}
	expenses, err := db.ListExpenses(conn, filter)
	if err != nil {
		return err
	}

	fmt.Println()
	if len(expenses) == 0 {
		dimColor.Println("  No expenses found.")
		dimColor.Println("  Use 'spendlog add <category> <amount>' to record one.")
		fmt.Println()
		return nil
	}

	instants := make([]string, len(expenses))
	for i, e := range expenses {
		instants[i] = e.RecordedAt
	}
	results := newFormatter().FormatAll(instants, prefs, nowInstant())

	// A zone problem affects every row; report it once instead.
	for _, r := range results {
		if r.Err != nil && !errors.Is(r.Err, timefmt.ErrInvalidInstant) {
			return r.Err
		}
	}

	titleColor.Printf("  Expenses (%d)\n\n", len(expenses))
	for i, e := range expenses {
		when := results[i].Value
		if results[i].Err != nil {
			log.Warn().Err(results[i].Err).Str("id", e.ID).Msg("unreadable timestamp")
			when = fmt.Sprintf("%s (unreadable)", e.RecordedAt)
		}
		infoColor.Printf("  %-8s  %-34s  %-14s %10s", shortID(e.ID), when, truncate(e.Category, 14), money(e.Amount))
		if e.Description != "" {
			dimColor.Printf("  %s", e.Description)
		}
		fmt.Println()
	}
	fmt.Println()
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
