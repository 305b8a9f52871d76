package main

import (
	"fmt"
	"os"

	"github.com/open-edge-platform/appstream-mapper/internal/config"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/logger"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/security"
	"github.com/spf13/cobra"
)

// Command-line flags that can override config file settings
var (
	configFile string = "" // Path to config file
	logLevel   string = "" // Empty means use config file value
)

func main() {
	// Initialize global configuration first
	configFilePath := configFile
	if configFilePath == "" {
		configFilePath = config.FindConfigFile()
	}

	globalConfig, err := config.LoadGlobalConfig(configFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Set global config singleton
	config.SetGlobal(globalConfig)

	// Setup logger with configured level
	_, cleanup := logger.InitWithLevel(globalConfig.Logging.Level)
	defer cleanup()

	// Create and execute root command
	rootCmd := createRootCommand()
	security.AttachRecursive(rootCmd, security.DefaultLimits())

	// Handle log level override after flag parsing
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if logLevel != "" {
			globalConfig.Logging.Level = logLevel
			config.SetGlobal(globalConfig)
			logger.SetLogLevel(logLevel)
		}
	}

	log := logger.Logger()
	if configFilePath != "" {
		log.Infof("Using configuration from: %s", configFilePath)
	}
	cacheDir, _ := config.CacheDir()
	outputDir, _ := config.OutputDir()
	log.Debugf("Config: workers=%d, cache_dir=%s, output_dir=%s, provider=%s",
		config.Workers(), cacheDir, outputDir, globalConfig.Registry.Provider)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// createRootCommand creates and configures the root cobra command with all subcommands
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "appstream-mapper",
		Short: "Correlate the Flathub AppStream feed with a package registry",
		Long: `appstream-mapper downloads the Flathub AppStream catalog, correlates its
desktop applications with packages available in a local package registry
(nixpkgs by default), and emits a merged AppStream catalog plus a JSON
coverage report.

Use 'appstream-mapper --help' to see available commands.
Use 'appstream-mapper <command> --help' for more information about a command.`,
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (debug, info, warn, error)")

	// Add all subcommands
	rootCmd.AddCommand(createMapCommand())
	rootCmd.AddCommand(createValidateCommand())
	rootCmd.AddCommand(createCacheCommand())
	rootCmd.AddCommand(createVersionCommand())
	rootCmd.AddCommand(createConfigCommand())
	rootCmd.AddCommand(createInstallCompletionCommand())

	return rootCmd
}
