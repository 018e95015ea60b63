// LumiSpec - Lighting Product Test Specifications
//
// A cross-platform admin console for lighting products, their test
// projects, samples and photometric measurements, backed by the LumiSpec
// REST API.
//
// Build:
//   go build -o lumispec ./cmd/lumispec
//
// Run against a local in-memory backend:
//   lumispec mock-api --seed &
//   lumispec --api-url http://localhost:3333/

package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/lumispec/internal/api"
	"github.com/piwi3910/lumispec/internal/config"
	"github.com/piwi3910/lumispec/internal/logging"
	"github.com/piwi3910/lumispec/internal/store"
	"github.com/piwi3910/lumispec/internal/ui"
)

// Version is overridden at link time with -ldflags "-X main.Version=...".
var Version = "0.1.0"

const appID = "com.piwi3910.lumispec"

// globalFlags are shared by every command that talks to the backend.
type globalFlags struct {
	configPath string
	apiURL     string
	logLevel   string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "lumispec",
		Short: "Lighting product test-specification console",
		Long: `LumiSpec manages lighting products, their test projects, the samples
tested in each project and the photometric measurements taken on them.

Without a subcommand it opens the desktop console.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Settings file (JSON, or YAML by extension)")
	cmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "Backend base URL")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(mockAPICmd(&flags))
	cmd.AddCommand(exportCmd(&flags))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lumispec version %s\n", Version)
		},
	})

	return cmd
}

// loadSettings reads the settings file and applies the environment, then
// the flags. It returns the settings and the file they belong to.
func loadSettings(flags globalFlags, getenv func(string) string) (config.Config, string, error) {
	path := config.ResolvePath(flags.configPath, getenv)
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("loading settings from %s: %w", path, err)
	}
	cfg = cfg.ApplyEnv(getenv)
	if flags.apiURL != "" {
		cfg.APIBaseURL = flags.apiURL
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", fmt.Errorf("settings: %w", err)
	}
	return cfg, path, nil
}

// newHub builds the stores over an API client for cfg.
func newHub(cfg config.Config, logger *zap.Logger) *store.Hub {
	client := api.New(cfg.APIBaseURL,
		api.WithTimeout(cfg.Timeout.Std()),
		api.WithLogger(logger.Named("api")))
	return store.NewHub(client, logger.Named("store"))
}

func runGUI(flags globalFlags) error {
	cfg, path, err := loadSettings(flags, os.Getenv)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting console",
		zap.String("version", Version),
		zap.String("api", cfg.APIBaseURL),
		zap.String("config", path))

	ui.Version = Version
	application := app.NewWithID(appID)
	window := application.NewWindow("LumiSpec - Lighting Product Specifications")

	appUI := ui.NewApp(application, window, ui.Options{
		Config:     cfg,
		ConfigPath: path,
		Hub:        newHub(cfg, logger),
		Logger:     logger,
	})
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1280, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
	return nil
}
