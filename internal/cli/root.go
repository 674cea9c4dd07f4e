package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/croptask/internal/config"
	"github.com/existflow/croptask/internal/db"
	"github.com/existflow/croptask/internal/logger"
	"github.com/existflow/croptask/internal/planner"
	"github.com/existflow/croptask/internal/tui"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFile    string
	logConsole bool

	// cfg is loaded once per invocation by the root PersistentPreRunE
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "croptask",
	Short: "CropTask - crop plans and field tasks in the terminal",
	Long: `CropTask keeps your crop plans and the tasks suggested by the
disease, pest and weed screens in one place.

Run 'croptask' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.FromEnv()
		}
		cfg = loaded

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		logConfig.FilePath = cfg.LogFile
		logConfig.Console = cfg.LogConsole

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("CropTask started", logger.F("command", cmd.Name()), logger.F("backend", cfg.Backend))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(cmd.Context())
		if err != nil {
			logger.Error("Failed to open store", logger.F("error", err))
			return err
		}
		defer closeStore()

		logger.Info("Launching TUI")
		p := tea.NewProgram(tui.NewModel(store), tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("CropTask exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// openStore opens the configured backend and wraps it in a plan store.
// The returned func closes the backend.
func openStore(ctx context.Context) (*planner.Store, func(), error) {
	if cfg == nil {
		cfg = config.FromEnv()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	kv, err := db.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	store := planner.NewStore(planner.NewKVRepository(kv, cfg.Namespace))

	return store, func() {
		if err := kv.Close(); err != nil {
			logger.Warn("Failed to close store", logger.F("error", err))
		}
	}, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(attachCmd)
	rootCmd.AddCommand(checklistCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(resetCmd)
}
