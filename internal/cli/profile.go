package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ishaan812/spendlog/internal/config"
	"github.com/ishaan812/spendlog/internal/db"
)

var deleteProfileData bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage spendlog profiles",
	Long: `Manage spendlog profiles (separate ledgers).

Profiles allow you to keep separate expense ledgers, such as personal
spending vs. work expenses. Display preferences are shared.

Without a subcommand, shows the current active profile.`,
	RunE: runProfileShow,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Long:  `List all profiles. The active profile is marked with (*).`,
	RunE:  runProfileList,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name> [description]",
	Short: "Create a new profile",
	Long:  `Create a new profile with the given name and optional description.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runProfileCreate,
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch to a profile",
	Long:  `Switch to an existing profile. All subsequent commands will use this profile.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileUse,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Long:  `Delete a profile. Use --data to also delete the profile's ledger and backups.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDelete,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileUseCmd)
	profileCmd.AddCommand(profileDeleteCmd)

	profileDeleteCmd.Flags().BoolVar(&deleteProfileData, "data", false, "Also delete the profile's ledger and backups")
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	profileName := db.GetActiveProfile()
	profile := cfg.Profiles[profileName]

	titleColor.Println("\nActive Profile")
	fmt.Println()

	infoColor.Printf("  Name: %s\n", profileName)
	if profile != nil {
		if profile.Description != "" {
			infoColor.Printf("  Description: %s\n", profile.Description)
		}
		dimColor.Printf("  Created: %s\n", profile.CreatedAt)
	}

	ledgerPath := config.GetProfileDBPath(profileName)
	if info, err := os.Stat(ledgerPath); err == nil {
		if conn, err := openLedger(); err == nil {
			if n, err := db.CountExpenses(conn); err == nil {
				infoColor.Printf("  Expenses: %d\n", n)
			}
		}
		dimColor.Printf("  Ledger: %s (%s)\n", ledgerPath, formatSize(info.Size()))
	} else {
		dimColor.Printf("  Ledger: %s (not created)\n", ledgerPath)
	}

	fmt.Println()
	return nil
}

func runProfileList(cmd *cobra.Command, args []string) error {
	titleColor.Println("\nProfiles")
	fmt.Println()

	if len(cfg.Profiles) == 0 {
		dimColor.Println("  No profiles found. Run 'spendlog profile create <name>' to create one.")
		fmt.Println()
		return nil
	}

	activeProfile := cfg.GetActiveProfileName()
	for _, name := range cfg.ListProfiles() {
		profile := cfg.Profiles[name]
		if name == activeProfile {
			successColor.Printf("  (*) %s", name)
		} else {
			infoColor.Printf("      %s", name)
		}
		if profile.Description != "" {
			dimColor.Printf(" - %s", profile.Description)
		}
		fmt.Println()
	}

	fmt.Println()
	return nil
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	name := args[0]
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	if err := cfg.CreateProfile(name, description); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	successColor.Printf("Created profile '%s'\n", name)
	fmt.Printf("Use 'spendlog profile use %s' to switch to it\n", name)
	return nil
}

func runProfileUse(cmd *cobra.Command, args []string) error {
	name := args[0]

	if err := cfg.SetActiveProfile(name); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	// Update the DB manager's active profile
	db.SetActiveProfile(name)

	successColor.Printf("Switched to profile '%s'\n", name)
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Close any open ledger connection for this profile
	if err := db.CloseProfile(name); err != nil {
		VerboseLog("Warning: failed to close ledger for %s: %v", name, err)
	}

	if err := cfg.DeleteProfile(name, deleteProfileData); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if deleteProfileData {
		successColor.Printf("Deleted profile '%s' and its data\n", name)
	} else {
		successColor.Printf("Deleted profile '%s'\n", name)
		dimColor.Printf("Note: Ledger files were not deleted. Use --data to delete them.\n")
	}
	return nil
}
