package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/ishaan812/spendlog/internal/backup"
	"github.com/ishaan812/spendlog/internal/config"
	"github.com/ishaan812/spendlog/internal/db"
	"github.com/ishaan812/spendlog/internal/timefmt"
	"github.com/ishaan812/spendlog/internal/zones"
)

var (
	titleColor   = color.New(color.FgHiCyan, color.Bold)
	successColor = color.New(color.FgHiGreen)
	warnColor    = color.New(color.FgHiYellow, color.Bold)
	infoColor    = color.New(color.FgWhite)
	dimColor     = color.New(color.FgHiBlack)
)

// loadCatalog returns the host zone catalog, or nil when the host has no zone
// data. UTC rendering keeps working without it.
func loadCatalog() *zones.Catalog {
	catalog, err := zones.Default(zones.WithLogger(log))
	if err != nil {
		log.Warn().Err(err).Msg("zone catalog unavailable")
		return nil
	}
	log.Debug().Int("zones", catalog.Len()).Msg("zone catalog loaded")
	return catalog
}

func requireCatalog() (*zones.Catalog, error) {
	catalog := loadCatalog()
	if catalog == nil {
		return nil, fmt.Errorf("no timezone data found on this system: %w", zones.ErrCatalogUnavailable)
	}
	return catalog, nil
}

func newFormatter() *timefmt.Formatter {
	return timefmt.NewFormatter(loadCatalog(), timefmt.WithLogger(log))
}

// nowInstant is the current time in stored form, passed as "now" to the formatter.
func nowInstant() string {
	return timefmt.FormatInstant(time.Now())
}

func openLedger() (*sql.DB, error) {
	conn, err := db.GetDB()
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	return conn, nil
}

func backupManager() *backup.Manager {
	dir := config.GetProfileBackupDir(db.GetActiveProfile())
	if dbPath != "" {
		dir = dbPath + ".backups"
	}
	return backup.NewManager(db.ActivePath(), dir,
		backup.WithCounter(db.CountExpensesInFile),
		backup.WithLogger(log),
	)
}

// checkpointLedger flushes pending writes so the ledger file can be copied.
func checkpointLedger() error {
	if _, err := os.Stat(db.ActivePath()); err != nil {
		return nil
	}
	conn, err := openLedger()
	if err != nil {
		return err
	}
	return db.Checkpoint(conn)
}

// autoBackup snapshots the ledger before destructive operations. Failures are
// reported but do not stop the operation.
func autoBackup(reason string) {
	if _, err := os.Stat(db.ActivePath()); err != nil {
		return
	}
	if err := checkpointLedger(); err != nil {
		log.Warn().Err(err).Msg("checkpoint before backup failed")
	}
	b, err := backupManager().Automatic(reason)
	if err != nil {
		log.Warn().Err(err).Msg("automatic backup failed")
		dimColor.Printf("  Note: automatic backup failed: %v\n", err)
		return
	}
	dimColor.Printf("  Backup saved: %s\n", b.Name)
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func startSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	s.Color("cyan")
	s.Writer = os.Stderr
	s.Start()
	return s
}

// confirm asks a yes/no question. Non-interactive sessions answer no.
func confirm(label string) bool {
	if !isInteractive() {
		return false
	}
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := prompt.Run()
	return err == nil
}

func promptText(label, def string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{Label: label, Default: def, Validate: validate}
	value, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
			return "", fmt.Errorf("cancelled")
		}
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// parseWhen accepts an offset-bearing instant, a bare date or date-time read
// in loc, or "now".
func parseWhen(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "now") {
		return time.Now(), nil
	}
	if t, err := timefmt.ParseInstant(s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot read %q as a time", timefmt.ErrInvalidInstant, s)
}

func money(amount interface{ StringFixed(int32) string }) string {
	return cfg.Currency + amount.StringFixed(2)
}
