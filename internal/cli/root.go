package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ishaan812/spendlog/internal/config"
	"github.com/ishaan812/spendlog/internal/db"
	"github.com/ishaan812/spendlog/internal/logger"
)

var (
	dbPath      string
	verbose     bool
	profileFlag string

	// Set up by the root pre-run for every command.
	cfg *config.Config
	log = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "spendlog",
	Short: "Spendlog - Log and review your expenses",
	Long: `Spendlog is a CLI expense logger. Every expense is stored with an
absolute timestamp and shown in the timezone and format you choose.

Use 'spendlog add' to record an expense and 'spendlog list' to review them.
Use 'spendlog tz search' and 'spendlog prefs set' to control how times are shown.

Profiles allow you to keep separate ledgers, e.g. personal and work.
Use 'spendlog profile' to manage profiles.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		usingDefaults := err != nil
		if usingDefaults {
			fmt.Fprintf(os.Stderr, "Warning: %v; using defaults\n", err)
			loaded = config.Default()
		}
		cfg = loaded

		if err := setupLogger(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to set up logging: %v\n", err)
		}

		// Custom ledger path bypasses profiles
		if dbPath != "" {
			db.SetDBPath(dbPath)
			return nil
		}

		if err := cfg.EnsureDefaultProfile(); err != nil {
			VerboseLog("Warning: failed to ensure default profile: %v", err)
		}

		profileName := cfg.GetActiveProfileName()
		if profileFlag != "" {
			if cfg.Profiles[profileFlag] == nil {
				return fmt.Errorf("%w: '%s'", config.ErrProfileNotFound, profileFlag)
			}
			profileName = profileFlag
		}
		db.SetActiveProfile(profileName)
		log = log.With().Str("profile", profileName).Logger()

		// Never replace a config file we could not read.
		if !usingDefaults {
			if err := cfg.Save(); err != nil {
				VerboseLog("Warning: failed to save config: %v", err)
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return db.Close()
	},
}

func setupLogger() error {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	lc := logger.Config{
		Level:      level,
		Format:     logger.ParseFormat(cfg.Log.Format),
		FilePath:   config.GetLogPath(),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}
	if verbose {
		lc.Level = zerolog.DebugLevel
		lc.Console = os.Stderr
	}
	built, err := logger.New(lc)
	if err != nil {
		return err
	}
	log = built
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Custom ledger path (overrides profile)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "Use specific profile (overrides active profile)")
}

func IsVerbose() bool {
	return verbose
}

func VerboseLog(format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}
