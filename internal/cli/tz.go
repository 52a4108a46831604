package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ishaan812/spendlog/internal/config"
	"github.com/ishaan812/spendlog/internal/timefmt"
	"github.com/ishaan812/spendlog/internal/tui"
	"github.com/ishaan812/spendlog/internal/zones"
)

var tzLimit int

var tzCmd = &cobra.Command{
	Use:   "tz",
	Short: "Find and choose the display timezone",
	Long: `Find and choose the timezone expenses are displayed in.

Without a subcommand, shows the current display timezone.`,
	RunE: runTzShow,
}

var tzSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search timezones by city or region",
	Long: `Search the timezones known to this system by city or region name.
Exact city matches come first, then cities starting with the query, then
cities or regions containing it.

Examples:
  spendlog tz search tokyo
  spendlog tz search "new y"
  spendlog tz search america --limit 20`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTzSearch,
}

var tzPickCmd = &cobra.Command{
	Use:   "pick [query]",
	Short: "Pick the display timezone interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTzPick,
}

var tzShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current display timezone",
	RunE:  runTzShow,
}

func init() {
	rootCmd.AddCommand(tzCmd)
	tzCmd.AddCommand(tzSearchCmd)
	tzCmd.AddCommand(tzPickCmd)
	tzCmd.AddCommand(tzShowCmd)

	tzSearchCmd.Flags().IntVarP(&tzLimit, "limit", "n", 10, "Maximum results to show (0 = all)")
}

func runTzSearch(cmd *cobra.Command, args []string) error {
	catalog, err := requireCatalog()
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	results := catalog.Search(query, tzLimit)

	fmt.Println()
	if len(results) == 0 {
		dimColor.Printf("  No timezones match %q\n", query)
		fmt.Println()
		return nil
	}

	titleColor.Printf("  Timezones matching %q\n\n", query)
	current := config.ZoneIdentifier(cfg.Display.Timezone)
	for _, r := range results {
		line := fmt.Sprintf("  %-32s %s", r.Zone.Identifier, r.Zone.Display())
		if r.Zone.Identifier == current {
			successColor.Printf("%s  (current)\n", line)
			continue
		}
		infoColor.Print(line)
		dimColor.Printf("  [%s]\n", r.Rank)
	}
	fmt.Println()
	return nil
}

func runTzPick(cmd *cobra.Command, args []string) error {
	if !isInteractive() {
		return fmt.Errorf("zone picker needs a terminal; use 'spendlog prefs set --zone <name>' instead")
	}
	catalog, err := requireCatalog()
	if err != nil {
		return err
	}
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	zone, err := tui.RunZoneSelection(catalog, config.ZoneIdentifier(cfg.Display.Timezone), query)
	if err != nil {
		if errors.Is(err, tui.ErrSelectionCancelled) {
			dimColor.Println("  Canceled.")
			return nil
		}
		return err
	}

	cfg.Display.Timezone = zone.Identifier
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	log.Info().Str("zone", zone.Identifier).Msg("display timezone changed")

	fmt.Println()
	successColor.Printf("  Display timezone set to %s\n", zone.Identifier)
	dimColor.Printf("  %s\n", zone.Display())
	fmt.Println()
	return nil
}

func runTzShow(cmd *cobra.Command, args []string) error {
	id := config.ZoneIdentifier(cfg.Display.Timezone)

	fmt.Println()
	titleColor.Println("  Display Timezone")
	fmt.Println()

	if id == "" {
		name, offset := time.Now().Zone()
		infoColor.Printf("  Zone:   system (%s)\n", time.Local.String())
		infoColor.Printf("  Offset: %s %s\n", zones.FormatOffset(offset/60), name)
	} else {
		catalog := loadCatalog()
		var entry zones.ZoneEntry
		var err error
		if catalog == nil {
			err = zones.ErrCatalogUnavailable
		} else {
			entry, err = catalog.Lookup(id)
		}
		if err != nil {
			warnColor.Printf("  Zone:   %s (%v)\n", id, err)
			fmt.Println()
			return nil
		}
		infoColor.Printf("  Zone:   %s\n", entry.Identifier)
		infoColor.Printf("  Offset: %s\n", entry.Display())
	}

	prefs, err := cfg.Preferences()
	if err == nil {
		prefs.ShowRelative = false
		if now, err := newFormatter().FormatTime(time.Now(), prefs, time.Time{}); err == nil {
			infoColor.Printf("  Now:    %s\n", now)
		}
	}
	dimColor.Printf("  Mode:   %s\n", describeMode(prefs))
	fmt.Println()
	return nil
}

func describeMode(p timefmt.Preferences) string {
	if p.Mode == timefmt.ModeUTC {
		return "utc (timezone is ignored)"
	}
	return p.Mode.String()
}
