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
)

var (
	prefsMode     string
	prefsPattern  string
	prefsZone     string
	prefsRelative bool
	prefsCurrency string
	prefsLogLevel string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change display preferences",
	Long: `Show or change how timestamps are displayed.

Modes:
  local   - date, time and offset in the display timezone
  utc     - the stored UTC instant, timezone is ignored
  custom  - your own pattern, e.g. "%d %b %Y %I:%M %p %Z"

Without a subcommand, shows the current preferences.`,
	RunE: runPrefsShow,
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current preferences",
	RunE:  runPrefsShow,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change preferences",
	Long: `Change display preferences. Only the flags given are changed.

Pattern tokens:
  %Y year    %m month   %d day     %H hour (24h)  %I hour (12h)  %p AM/PM
  %M minute  %S second  %f micros  %b Jan        %B January     %a Mon
  %A Monday  %j day of year         %e day (space padded)
  %y year (2 digits)    %z +0530   %Z zone abbreviation   %% literal %

Examples:
  spendlog prefs set --mode utc
  spendlog prefs set --mode custom --pattern "%d %b %Y, %H:%M"
  spendlog prefs set --zone Asia/Dhaka --relative
  spendlog prefs set --zone system --relative=false`,
	RunE: runPrefsSet,
}

var prefsPatternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Edit the custom pattern with a live preview",
	Long: `Edit the custom timestamp pattern interactively. The preview updates as
you type; saving switches the timestamp mode to custom.`,
	RunE: runPrefsPattern,
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsPatternCmd)

	prefsSetCmd.Flags().StringVar(&prefsMode, "mode", "", "Timestamp mode: local, utc or custom")
	prefsSetCmd.Flags().StringVar(&prefsPattern, "pattern", "", "Pattern used in custom mode")
	prefsSetCmd.Flags().StringVar(&prefsZone, "zone", "", "Display timezone (IANA name, or 'system')")
	prefsSetCmd.Flags().BoolVar(&prefsRelative, "relative", false, "Append relative time, e.g. (2h ago)")
	prefsSetCmd.Flags().StringVar(&prefsCurrency, "currency", "", "Currency symbol shown before amounts")
	prefsSetCmd.Flags().StringVar(&prefsLogLevel, "log-level", "", "Log file level: debug, info, warn, error")
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	fmt.Println()
	titleColor.Println("  Display Preferences")
	fmt.Println()
	printPrefs(cfg)
	fmt.Println()
	return nil
}

func printPrefs(c *config.Config) {
	d := c.Display
	infoColor.Printf("  Mode:      %s\n", d.TimestampMode)
	if d.TimestampMode == timefmt.ModeCustom.String() {
		infoColor.Printf("  Pattern:   %s\n", d.CustomFormat)
	} else {
		dimColor.Printf("  Pattern:   %s (used in custom mode)\n", d.CustomFormat)
	}
	infoColor.Printf("  Timezone:  %s\n", d.Timezone)
	infoColor.Printf("  Relative:  %t\n", d.ShowRelative)
	infoColor.Printf("  Currency:  %s\n", c.Currency)
	dimColor.Printf("  Log level: %s (%s)\n", c.Log.Level, config.GetLogPath())

	prefs, err := c.Preferences()
	if err != nil {
		warnColor.Printf("  Preview:   %v\n", err)
		return
	}
	preview, err := previewNow(prefs)
	if err != nil {
		warnColor.Printf("  Preview:   %v\n", err)
		return
	}
	successColor.Printf("  Preview:   %s\n", preview)
}

// previewNow renders a sample taken two hours ago so the relative suffix
// shows too.
func previewNow(prefs timefmt.Preferences) (string, error) {
	now := time.Now()
	return newFormatter().FormatTime(now.Add(-2*time.Hour), prefs, now)
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	changed := false
	for _, name := range []string{"mode", "pattern", "zone", "relative", "currency", "log-level"} {
		changed = changed || flags.Changed(name)
	}
	if !changed {
		return cmd.Help()
	}

	updated := *cfg
	if flags.Changed("mode") {
		mode, err := timefmt.ParseMode(prefsMode)
		if err != nil {
			return err
		}
		updated.Display.TimestampMode = mode.String()
	}
	if flags.Changed("pattern") {
		updated.Display.CustomFormat = prefsPattern
	}
	if flags.Changed("zone") {
		zone := strings.TrimSpace(prefsZone)
		if id := config.ZoneIdentifier(zone); id != "" {
			catalog, err := requireCatalog()
			if err != nil {
				return err
			}
			entry, err := catalog.Lookup(id)
			if err != nil {
				return fmt.Errorf("%w: %q: %w; try 'spendlog tz search'", timefmt.ErrUnknownZone, id, err)
			}
			zone = entry.Identifier
		} else {
			zone = config.SystemZone
		}
		updated.Display.Timezone = zone
	}
	if flags.Changed("relative") {
		updated.Display.ShowRelative = prefsRelative
	}
	if flags.Changed("currency") {
		updated.Currency = strings.TrimSpace(prefsCurrency)
	}
	if flags.Changed("log-level") {
		updated.Log.Level = strings.ToLower(strings.TrimSpace(prefsLogLevel))
	}

	prefs, err := updated.Preferences()
	if err != nil {
		return err
	}
	if err := prefs.Validate(); err != nil {
		return err
	}
	if err := updated.Save(); err != nil {
		return err
	}
	*cfg = updated
	log.Info().Str("mode", prefs.Mode.String()).Str("zone", updated.Display.Timezone).Msg("preferences updated")

	fmt.Println()
	successColor.Println("  Preferences saved")
	fmt.Println()
	printPrefs(cfg)
	fmt.Println()
	return nil
}

func runPrefsPattern(cmd *cobra.Command, args []string) error {
	if !isInteractive() {
		return fmt.Errorf("pattern editor needs a terminal; use 'spendlog prefs set --pattern' instead")
	}
	prefs, err := cfg.Preferences()
	if err != nil {
		return err
	}
	prefs.Mode = timefmt.ModeCustom
	formatter := newFormatter()
	now := time.Now()

	preview := func(pattern string) (string, error) {
		p := prefs
		p.CustomPattern = pattern
		return formatter.FormatTime(now.Add(-2*time.Hour), p, now)
	}
	pattern, err := tui.RunPatternPrompt("Custom timestamp pattern",
		"%Y %m %d %H %M %S %b %a %p %z %Z ... - enter to save, esc to cancel",
		cfg.Display.CustomFormat, preview)
	if err != nil {
		if errors.Is(err, tui.ErrPromptCancelled) {
			dimColor.Println("  Canceled.")
			return nil
		}
		return err
	}

	cfg.Display.TimestampMode = timefmt.ModeCustom.String()
	cfg.Display.CustomFormat = pattern
	if err := cfg.Save(); err != nil {
		return err
	}
	log.Info().Str("pattern", pattern).Msg("custom pattern updated")

	fmt.Println()
	successColor.Println("  Preferences saved")
	fmt.Println()
	printPrefs(cfg)
	fmt.Println()
	return nil
}
