// sqlpilot is a terminal client for a Text-to-SQL generation service.
// Run without arguments to start the interactive dashboard.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sqlpilot/cmd/sqlpilot/dashboard"
	"sqlpilot/cmd/sqlpilot/ui"
	"sqlpilot/internal/api"
	"sqlpilot/internal/config"
	"sqlpilot/internal/logging"
	"sqlpilot/internal/session"
	"sqlpilot/internal/workspace"
)

var (
	// Global flags
	apiURL     string
	configPath string
	debug      bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sqlpilot",
	Short: "sqlpilot - terminal dashboard for SQL generation",
	Long: `sqlpilot is a terminal client for a Text-to-SQL service.

It signs you in, lets you register table schemas as generation context,
turns natural language questions into SQL, and keeps your generation
history at hand. All state except the saved session lives on the server.

Run without arguments to start the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if apiURL != "" {
			cfg.APIURL = apiURL
		}
		if debug {
			cfg.Debug = true
		}

		logger, err = logging.New(config.StateDir(), cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSessionStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if _, ok := store.Load(); !ok {
			fmt.Println("No saved session.")
			return nil
		}
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the user of the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSessionStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sess, ok := store.Load()
		if !ok {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Println(sess.Username)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sqlpilot %s\n", version)
	},
}

// version is set via -ldflags at release time.
var version = "dev"

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "service base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(versionCmd)
}

func openSessionStore() (*session.Store, error) {
	return session.Open(filepath.Join(config.StateDir(), "session.db"), logger)
}

func runDashboard() error {
	store, err := openSessionStore()
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer store.Close()

	coord := workspace.New(store, logger)
	coord.RestoreFromStore()

	client := api.NewClient(cfg.APIURL, cfg.RequestTimeout, logger)

	theme := ui.DetectTheme()
	if cfg.Theme != "" {
		theme = ui.ThemeByName(cfg.Theme)
	}

	p := tea.NewProgram(
		dashboard.New(client, coord, ui.NewStyles(theme), logger),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
