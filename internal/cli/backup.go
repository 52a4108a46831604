package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ishaan812/spendlog/internal/db"
	"github.com/ishaan812/spendlog/internal/timefmt"
)

var (
	backupForce       bool
	backupCleanupDays int
	backupKeepMinimum int
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage ledger backups",
	Long: `Create, list and restore copies of the ledger.

Backups are taken automatically before 'clear', 'import' and 'restore'.
Backups older than 30 days are pruned automatically, keeping at least 5.

Without a subcommand, lists backups.`,
	RunE: runBackupList,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create [description]",
	Short: "Back up the ledger now",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBackupCreate,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	RunE:  runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <backup>",
	Short: "Replace the ledger with a backup",
	Long: `Replace the ledger with a backup. The current ledger is backed up first,
so a restore can itself be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete <backup>",
	Short: "Delete a backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupDelete,
}

var backupCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old backups",
	RunE:  runBackupCleanup,
}

var backupInfoCmd = &cobra.Command{
	Use:   "info <backup>",
	Short: "Show details of a backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupInfo,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupDeleteCmd)
	backupCmd.AddCommand(backupCleanupCmd)
	backupCmd.AddCommand(backupInfoCmd)

	backupRestoreCmd.Flags().BoolVarP(&backupForce, "force", "f", false, "Skip confirmation prompt")
	backupDeleteCmd.Flags().BoolVarP(&backupForce, "force", "f", false, "Skip confirmation prompt")
	backupCleanupCmd.Flags().IntVar(&backupCleanupDays, "days", 30, "Delete backups older than this many days")
	backupCleanupCmd.Flags().IntVar(&backupKeepMinimum, "keep", 5, "Always keep this many recent backups")
}

// backupTime renders a backup time with the display preferences.
func backupTime(t time.Time) string {
	prefs, err := cfg.Preferences()
	if err != nil {
		return timefmt.FormatInstant(t)
	}
	prefs.ShowRelative = true
	s, err := newFormatter().FormatTime(t, prefs, time.Now())
	if err != nil {
		return timefmt.FormatInstant(t)
	}
	return s
}

func formatSize(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	description := "Manual backup"
	if len(args) > 0 {
		description = args[0]
	}
	if err := checkpointLedger(); err != nil {
		return err
	}

	s := startSpinner("Creating backup...")
	b, err := backupManager().Create(description)
	s.Stop()
	if err != nil {
		return err
	}

	fmt.Println()
	successColor.Printf("  Created backup %s\n", b.Name)
	dimColor.Printf("  %s (%s)\n", b.Path, formatSize(b.Size))
	fmt.Println()
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	m := backupManager()
	backups, err := m.List()
	if err != nil {
		return err
	}

	fmt.Println()
	titleColor.Printf("  Backups (%d)\n", len(backups))
	dimColor.Printf("  %s\n\n", m.Dir())

	if len(backups) == 0 {
		dimColor.Println("  No backups yet. Use 'spendlog backup create' to make one.")
		fmt.Println()
		return nil
	}

	for _, b := range backups {
		infoColor.Printf("  %s\n", b.Name)
		dimColor.Printf("     %s, %s", backupTime(b.CreatedAt), formatSize(b.Size))
		if b.Description != "" {
			dimColor.Printf(" - %s", b.Description)
		}
		fmt.Println()
	}
	fmt.Println()
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	m := backupManager()
	path, err := m.Resolve(args[0])
	if err != nil {
		return err
	}

	fmt.Println()
	warnColor.Printf("  Restore %s\n", args[0])
	dimColor.Printf("  This replaces the ledger at %s\n\n", db.ActivePath())
	if !backupForce && !confirm("Restore this backup") {
		dimColor.Println("  Canceled.")
		fmt.Println()
		return nil
	}

	if err := checkpointLedger(); err != nil {
		VerboseLog("Warning: %v", err)
	}
	// The ledger file is replaced on disk, so no connection may hold it.
	if err := db.CloseActive(); err != nil {
		return fmt.Errorf("failed to close ledger: %w", err)
	}

	safety, err := m.Restore(path)
	if safety != nil {
		dimColor.Printf("  Safety backup: %s\n", safety.Name)
	}
	if err != nil {
		return err
	}

	successColor.Printf("  Restored ledger from %s\n", args[0])
	fmt.Println()
	return nil
}

func runBackupDelete(cmd *cobra.Command, args []string) error {
	if !backupForce && !confirm(fmt.Sprintf("Delete backup %s", args[0])) {
		dimColor.Println("  Canceled.")
		return nil
	}
	found, err := backupManager().Delete(args[0])
	if err != nil {
		return err
	}
	if !found {
		warnColor.Printf("  Backup not found: %s\n", args[0])
		return nil
	}
	successColor.Printf("  Deleted backup %s\n", args[0])
	return nil
}

func runBackupCleanup(cmd *cobra.Command, args []string) error {
	if backupCleanupDays < 0 || backupKeepMinimum < 0 {
		return fmt.Errorf("--days and --keep must not be negative")
	}
	deleted, err := backupManager().Cleanup(backupCleanupDays, backupKeepMinimum)
	if err != nil {
		return err
	}
	fmt.Println()
	if deleted == 0 {
		dimColor.Println("  No backups to clean up.")
	} else {
		successColor.Printf("  Deleted %d old backups\n", deleted)
	}
	fmt.Println()
	return nil
}

func runBackupInfo(cmd *cobra.Command, args []string) error {
	info, err := backupManager().Info(args[0])
	if err != nil && info.Path == "" {
		return err
	}

	fmt.Println()
	titleColor.Printf("  %s\n\n", info.Name)
	infoColor.Printf("  Created:     %s\n", backupTime(info.CreatedAt))
	infoColor.Printf("  Size:        %s\n", formatSize(info.Size))
	if info.Description != "" {
		infoColor.Printf("  Description: %s\n", info.Description)
	}
	if err != nil {
		warnColor.Printf("  Records:     %v\n", err)
	} else if info.Records >= 0 {
		infoColor.Printf("  Records:     %d\n", info.Records)
	}
	dimColor.Printf("  Path:        %s\n", info.Path)
	fmt.Println()
	return nil
}
