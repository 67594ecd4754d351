package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rewired-gh/tradedash/internal/botapi"
	"github.com/rewired-gh/tradedash/internal/config"
	"github.com/rewired-gh/tradedash/internal/logger"
)

const defaultConfigPath = "configs/config.yaml"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tradedash",
	Short: "Live terminal dashboard for the trading bot",
	Long: `tradedash mirrors the trading bot's state in the terminal.

With no subcommand it runs the live dashboard: it pulls the full state,
follows the bot's push stream and redraws on every update. The portfolio,
pause and close-all subcommands send a single control request and exit.`,
	SilenceUsage: true,
	RunE:         runWatch,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file")

	rootCmd.AddCommand(
		newWatchCmd(),
		newPortfolioCmd(),
		newPauseCmd(),
		newCloseAllCmd(),
	)
}

// setup loads .env, the configuration and the logger.
func setup(cmd *cobra.Command) (*config.Config, error) {
	_ = godotenv.Load()

	path := configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if path != "" {
		logger.Info("Configuration loaded from %s", path)
	} else {
		logger.Debug("No configuration file, using defaults and environment")
	}
	return cfg, nil
}

func newAPIClient(cfg *config.Config, clientID string) *botapi.Client {
	return botapi.NewClient(botapi.ClientConfig{
		BaseURL:   cfg.Server.BaseURL,
		StatePath: cfg.Server.StatePath,
		Timeout:   cfg.Server.RequestTimeout,
		ClientID:  clientID,
	})
}

func newClientID() string {
	return uuid.NewString()
}
