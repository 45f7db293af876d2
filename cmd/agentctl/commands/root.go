package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/haidt/agent-engine/internal/config"
	"github.com/haidt/agent-engine/internal/pipeline"
	"github.com/haidt/agent-engine/internal/provider"
	"github.com/haidt/agent-engine/internal/registry"
	"github.com/haidt/agent-engine/internal/store"
	"github.com/haidt/agent-engine/shared/database"
	"github.com/haidt/agent-engine/shared/logger"
)

const cliExecutable = "agentctl"

// app bundles the components a CLI command needs, built from the config
// file the same way the service builds them
type app struct {
	cfg      *config.Config
	logger   *logger.Logger
	store    store.Store
	registry *registry.Registry
	driver   *pipeline.Driver
	cleanup  func()
}

// NewCommand constructs the top-level agentctl CLI command
func NewCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Agent engine workflow tool",
		Long:  "Run agent pipelines, inspect records, and manage the agent registry from the command line.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")

	cmd.AddCommand(newServeCommand(&configFile))
	cmd.AddCommand(newRunCommand(&configFile))
	cmd.AddCommand(newAnalyzeCommand(&configFile))
	cmd.AddCommand(newAgentsCommand(&configFile))

	return cmd
}

// loadApp builds the shared components from the configuration file
func loadApp(configFile string) (*app, error) {
	// .env is optional, same as the service
	_ = godotenv.Load()

	path := configFile
	if path == "" {
		path = os.Getenv("ENGINE_SERVICE_CONFIG_PATH")
	}
	if path == "" {
		path = "configs/engine-service/config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// CLI output goes to stdout; keep log noise on stderr
	appLogger, err := logger.New(&logger.Config{
		Level:  "warn",
		Format: cfg.Logging.Format,
		Output: "stderr",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbClient, err := database.NewClient(&database.Config{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	}, appLogger.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	recordStore, err := store.NewSQLStore(dbClient.GetDB(), appLogger.Logger)
	if err != nil {
		dbClient.Close()
		return nil, fmt.Errorf("failed to initialize record store: %w", err)
	}

	providerClient := provider.NewClient(&provider.Config{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		Timeout: cfg.Provider.Timeout,
	}, appLogger.Logger)

	return &app{
		cfg:      cfg,
		logger:   appLogger,
		store:    recordStore,
		registry: registry.New(recordStore, appLogger.Logger),
		driver:   pipeline.NewDriver(providerClient, recordStore, cfg.Provider.InputKind, appLogger.Logger),
		cleanup: func() {
			dbClient.Close()
		},
	}, nil
}
