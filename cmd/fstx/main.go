package main

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"fstx-go/internal/app"
	"fstx-go/internal/config"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer
// a.Close(). operation identifies the CLI command being run (e.g. "Apply").
func newApp(operation string) (*app.App, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewApp(cfg, operation, promptPassphrase)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func readConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// promptPassphrase reads a passphrase from the terminal without echo.
func promptPassphrase() (string, error) {
	fmt.Fprint(os.Stderr, "Passphrase: ")
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(pass), nil
}

var rootCmd = &cobra.Command{
	Use:   "fstx",
	Short: "Transactional filesystem operations",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Temp Dir:   %s\n", cfg.Backup.TempDir)
		fmt.Printf("Encrypted:  %t\n", cfg.Backup.Encrypt)
		fmt.Printf("Journal:    %s\n", cfg.Journal.Type)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the key pair for encrypted backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}

		pass, err := promptPassphrase()
		if err != nil {
			return err
		}

		if err := app.InitKeys(cfg, pass); err != nil {
			return err
		}

		fmt.Printf("Keys written to %s\n", cfg.Encryption.PublicKeyPath)
		return nil
	},
}

// apply command
var applyCmd = &cobra.Command{
	Use:   "apply PLAN",
	Short: "Apply a plan file as a single transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noRollback, _ := cmd.Flags().GetBool("no-rollback")

		a, err := newApp("Apply")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Apply(args[0], noRollback)
		if err != nil {
			return err
		}

		switch result.Status {
		case "committed":
			fmt.Printf("Applied %d step(s) (transaction %s)\n", result.Executed, result.TransactionID)
			return nil
		case "failed":
			return fmt.Errorf("step %d failed, not rolled back: %w", result.FailedStep, result.ExecuteErr)
		case "rolled_back":
			return fmt.Errorf("step %d failed, rolled back: %w", result.FailedStep, result.ExecuteErr)
		default: // rollback_failed
			return fmt.Errorf("step %d failed (%v), and rollback failed, manual recovery needed: %w",
				result.FailedStep, result.ExecuteErr, result.RollbackErr)
		}
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View applied transaction history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No transactions recorded.")
			return nil
		}

		for _, rec := range records {
			duration := rec.FinishedAt.Sub(rec.StartedAt).Truncate(time.Millisecond).String()
			fmt.Printf("%s  %s  %-15s  %d/%d step(s)  %s  %s\n",
				rec.ID[:8],
				rec.StartedAt.Format("2006-01-02 15:04:05"),
				rec.Status,
				rec.Executed,
				rec.Steps,
				duration,
				rec.Plan,
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show TRANSACTION",
	Short: "View the steps of a recorded transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		steps, err := a.Steps(args[0])
		if err != nil {
			return err
		}

		if len(steps) == 0 {
			fmt.Println("No steps recorded for this transaction.")
			return nil
		}

		for _, step := range steps {
			if step.Dest != "" {
				fmt.Printf("%3d  %-17s  %s -> %s\n", step.Seq, step.Kind, step.Source, step.Dest)
			} else {
				fmt.Printf("%3d  %-17s  %s\n", step.Seq, step.Kind, step.Source)
			}
		}
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)

	// history subcommands
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of transactions to show")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().Bool("no-rollback", false, "Leave partial results in place when a step fails")
	rootCmd.AddCommand(historyCmd)
}
