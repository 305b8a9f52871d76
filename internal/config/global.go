// internal/config/global.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/open-edge-platform/appstream-mapper/internal/utils/logger"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/security"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/slice"
	"github.com/open-edge-platform/appstream-mapper/internal/validate"
	"gopkg.in/yaml.v3"
)

var log = logger.Logger()

// GlobalConfig holds essential tool-level configuration parameters
type GlobalConfig struct {
	// Core tool settings
	Workers   int    `yaml:"workers" json:"workers"`       // Number of concurrent icon download workers (1-100, default: 8)
	CacheDir  string `yaml:"cache_dir" json:"cache_dir"`   // Directory for the cached feed and downloaded artifacts (default: ./cache)
	OutputDir string `yaml:"output_dir" json:"output_dir"` // Directory where catalog, report and icons are written (default: ./flathub-mapped)
	TempDir   string `yaml:"temp_dir" json:"temp_dir"`     // Temporary directory for short-lived files (empty = system default)

	// Feed settings
	Feed FeedConfig `yaml:"feed" json:"feed"`

	// Registry query settings
	Registry RegistryConfig `yaml:"registry" json:"registry"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"` // Logging behavior settings
}

// FeedConfig controls where the AppStream feed comes from and how long a
// cached copy stays fresh.
type FeedConfig struct {
	URL          string  `yaml:"url" json:"url"`
	IconsBaseURL string  `yaml:"icons_base_url" json:"icons_base_url"`
	TTLHours     float64 `yaml:"ttl_hours" json:"ttl_hours"`
	Pubkey       string  `yaml:"pubkey,omitempty" json:"pubkey,omitempty"` // armored key for detached signature verification; empty disables
}

// RegistryConfig selects the package registry snapshot provider.
type RegistryConfig struct {
	Provider            string `yaml:"provider" json:"provider"`
	QueryTimeoutSeconds int    `yaml:"query_timeout_seconds" json:"query_timeout_seconds"`
	RPMDir              string `yaml:"rpm_dir,omitempty" json:"rpm_dir,omitempty"` // only used by the rpmdir provider
}

// LoggingConfig controls basic logging behavior
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`                   // Log verbosity level: debug, info (default), warn, error
	File  string `yaml:"file,omitempty" json:"file,omitempty"` // Optional log file path for teeing output to disk
}

// Global singleton variables
var (
	globalInstance *GlobalConfig
	globalMutex    sync.RWMutex
	once           sync.Once
)

// SetGlobal sets the global config instance (call once at startup in main.go)
func SetGlobal(config *GlobalConfig) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalInstance = config
}

// Global returns the global config instance
func Global() *GlobalConfig {
	once.Do(func() {
		globalMutex.Lock()
		defer globalMutex.Unlock()
		if globalInstance == nil {
			globalInstance = DefaultGlobalConfig()
		}
	})

	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalInstance
}

// DefaultGlobalConfig returns a GlobalConfig with sensible defaults
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Workers:   8,
		CacheDir:  "./cache",
		OutputDir: "./flathub-mapped",
		TempDir:   "./tmp",

		Feed: FeedConfig{
			URL:          "https://dl.flathub.org/repo/appstream/x86_64/appstream.xml.gz",
			IconsBaseURL: "https://dl.flathub.org/repo/appstream/x86_64/icons",
			TTLHours:     24,
		},

		Registry: RegistryConfig{
			Provider:            "nix",
			QueryTimeoutSeconds: 300,
		},

		Logging: LoggingConfig{
			Level: "info",
			File:  "appstream-mapper.log",
		},
	}
}

// LoadGlobalConfig loads configuration from the specified path
func LoadGlobalConfig(configPath string) (*GlobalConfig, error) {
	// Start with defaults
	config := DefaultGlobalConfig()

	// If no config file specified or doesn't exist, return defaults
	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return config, nil // Return defaults if file doesn't exist
		}
		if errors.Is(err, os.ErrPermission) {
			log.Warnf("Config file %s is not accessible (%v); using defaults", configPath, err)
			return config, nil
		}
		log.Errorf("Error accessing config file %s: %v", configPath, err)
		return nil, fmt.Errorf("accessing config file %s: %w", configPath, err)
	}

	// Load and merge config file values with symlink protection
	data, err := security.SafeReadFile(configPath, security.RejectSymlinks)
	if err != nil {
		log.Errorf("Error reading config file %s: %v", configPath, err)
		return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
	}

	// Determine format by extension
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			log.Errorf("Error parsing YAML config: %v", err)
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}

		// Convert to JSON for schema validation
		jsonData, err := json.Marshal(config)
		if err != nil {
			log.Errorf("Error converting config to JSON for validation: %v", err)
			return nil, fmt.Errorf("converting config to JSON for validation: %w", err)
		}

		// Validate against schema
		if err := validate.ValidateConfigJSON(jsonData); err != nil {
			log.Errorf("Schema validation failed: %v", err)
			return nil, fmt.Errorf("schema validation failed: %w", err)
		}

	default:
		log.Errorf("Unsupported config file format: %s", ext)
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml)", ext)
	}

	// Validate the final configuration
	if err := config.Validate(); err != nil {
		log.Errorf("Config validation failed: %v", err)
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// SaveGlobalConfigWithComments saves the configuration with descriptive
// comments. Primarily used by the CLI config init command to create a
// user-friendly starting file.
func (gc *GlobalConfig) SaveGlobalConfigWithComments(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is empty")
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			log.Errorf("Failed to create config directory: %v", err)
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	jsonData, err := json.Marshal(gc)
	if err != nil {
		log.Errorf("Error converting config to JSON for validation: %v", err)
		return fmt.Errorf("converting config to JSON for validation: %w", err)
	}

	if err := validate.ValidateConfigJSON(jsonData); err != nil {
		log.Errorf("Config validation failed before save: %v", err)
		return fmt.Errorf("config validation failed before save: %w", err)
	}

	commented := gc.renderCommentedYAML()

	if err := security.SafeWriteFile(configPath, []byte(commented), 0600, security.RejectSymlinks); err != nil {
		log.Errorf("Error writing config file: %v", err)
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// renderCommentedYAML builds a YAML representation of the config with rich comments.
func (gc *GlobalConfig) renderCommentedYAML() string {
	var b strings.Builder

	b.WriteString("# AppStream Mapper - Global Configuration\n")
	b.WriteString("# This file contains tool-level settings that apply across all mapping runs.\n\n")

	b.WriteString("# Core tool settings\n")
	fmt.Fprintf(&b, "workers: %d\n", gc.Workers)
	b.WriteString("# Number of concurrent icon download workers (1-100, default: 8)\n\n")

	fmt.Fprintf(&b, "cache_dir: %q\n", gc.CacheDir)
	b.WriteString("# Directory where the downloaded feed is cached between runs (default: ./cache)\n\n")

	fmt.Fprintf(&b, "output_dir: %q\n", gc.OutputDir)
	b.WriteString("# Directory where the catalog XML, mapping report and icons are written\n\n")

	fmt.Fprintf(&b, "temp_dir: %q\n", gc.TempDir)
	b.WriteString("# Temporary directory for short-lived files like decompressed metadata\n")
	b.WriteString("# Empty value uses the system default (/tmp on Linux)\n\n")

	b.WriteString("# Feed settings\n")
	b.WriteString("feed:\n")
	fmt.Fprintf(&b, "  url: %q\n", gc.Feed.URL)
	b.WriteString("  # URL or local path of the AppStream catalog feed (.xml, .xml.gz, .xml.xz, .xml.zst)\n")
	fmt.Fprintf(&b, "  icons_base_url: %q\n", gc.Feed.IconsBaseURL)
	b.WriteString("  # Base URL for composing URLs of cached icon references\n")
	fmt.Fprintf(&b, "  ttl_hours: %g\n", gc.Feed.TTLHours)
	b.WriteString("  # Hours a cached feed stays fresh before it is downloaded again (default: 24)\n")
	if gc.Feed.Pubkey != "" {
		fmt.Fprintf(&b, "  pubkey: %q\n", gc.Feed.Pubkey)
		b.WriteString("  # Armored public key used to verify a detached feed signature\n")
	}
	b.WriteString("\n")

	b.WriteString("# Registry query settings\n")
	b.WriteString("registry:\n")
	fmt.Fprintf(&b, "  provider: %q\n", gc.Registry.Provider)
	b.WriteString("  # Registry snapshot provider: nix, rpmdir or static\n")
	fmt.Fprintf(&b, "  query_timeout_seconds: %d\n", gc.Registry.QueryTimeoutSeconds)
	b.WriteString("  # Bound on the external registry query run time (default: 300)\n")
	if gc.Registry.RPMDir != "" {
		fmt.Fprintf(&b, "  rpm_dir: %q\n", gc.Registry.RPMDir)
		b.WriteString("  # Directory of .rpm files scanned by the rpmdir provider\n")
	}
	b.WriteString("\n")

	b.WriteString("# Logging configuration\n")
	b.WriteString("logging:\n")
	fmt.Fprintf(&b, "  level: %q\n", gc.Logging.Level)
	b.WriteString("  # Log verbosity level (default: info)\n")
	b.WriteString("  # - debug: Most verbose, shows all operations and data structures\n")
	b.WriteString("  # - info:  Normal output, shows progress and important events\n")
	b.WriteString("  # - warn:  Only warnings and errors, minimal output\n")
	b.WriteString("  # - error: Only errors, very quiet operation\n")
	if gc.Logging.File != "" {
		fmt.Fprintf(&b, "  file: %q\n", gc.Logging.File)
		b.WriteString("  # Tee logs to this file in addition to stderr (overwritten on each run)\n")
	}

	return b.String()
}

// Validate checks the configuration for consistency and applies constraints
// Note: This should NOT set defaults - that's done in DefaultGlobalConfig()
func (gc *GlobalConfig) Validate() error {
	// Validate workers range
	if gc.Workers <= 0 {
		log.Errorf("Workers must be greater than 0, got %d", gc.Workers)
		return fmt.Errorf("workers must be greater than 0, got %d", gc.Workers)
	}
	if gc.Workers > 100 {
		log.Errorf("Workers cannot exceed 100, got %d", gc.Workers)
		return fmt.Errorf("workers cannot exceed 100, got %d", gc.Workers)
	}

	// Validate required fields are not empty
	if gc.CacheDir == "" {
		log.Errorf("CacheDir cannot be empty")
		return fmt.Errorf("CacheDir cannot be empty")
	}
	if gc.OutputDir == "" {
		log.Errorf("OutputDir cannot be empty")
		return fmt.Errorf("OutputDir cannot be empty")
	}
	if gc.Feed.URL == "" {
		return fmt.Errorf("feed URL cannot be empty")
	}
	if gc.Feed.TTLHours < 0 {
		return fmt.Errorf("feed ttl_hours cannot be negative, got %g", gc.Feed.TTLHours)
	}

	validProviders := []string{"nix", "rpmdir", "static"}
	if !slice.Contains(validProviders, gc.Registry.Provider) {
		return fmt.Errorf("invalid registry provider %q, must be one of: %s",
			gc.Registry.Provider, strings.Join(validProviders, ", "))
	}
	if gc.Registry.QueryTimeoutSeconds <= 0 {
		return fmt.Errorf("registry query_timeout_seconds must be greater than 0, got %d",
			gc.Registry.QueryTimeoutSeconds)
	}

	// Validate logging level
	validLevels := []string{"debug", "info", "warn", "error"}
	if !slice.Contains(validLevels, gc.Logging.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s",
			gc.Logging.Level, strings.Join(validLevels, ", "))
	}

	gc.Logging.File = strings.TrimSpace(gc.Logging.File)

	// Ensure temp directory is set (can be empty to use system default)
	if gc.TempDir == "" {
		gc.TempDir = os.TempDir()
	}

	return nil
}

// GetConfigPaths returns the standard configuration file paths to check
func GetConfigPaths() []string {
	homeDir, _ := os.UserHomeDir()

	paths := []string{
		"appstream-mapper.yml",   // Primary config location (root directory)
		".appstream-mapper.yml",  // Hidden file in current directory
		"appstream-mapper.yaml",  // Alternative extension
		".appstream-mapper.yaml", // Hidden file alternative
	}

	if homeDir != "" {
		paths = append(paths,
			filepath.Join(homeDir, ".appstream-mapper", "config.yml"),
			filepath.Join(homeDir, ".appstream-mapper", "config.yaml"),
			filepath.Join(homeDir, ".config", "appstream-mapper", "config.yml"),
			filepath.Join(homeDir, ".config", "appstream-mapper", "config.yaml"),
		)
	}

	return paths
}

// FindConfigFile returns the first existing config file from the standard paths
func FindConfigFile() string {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Convenience functions that can be used anywhere in the codebase
func Workers() int {
	return Global().Workers
}

func CacheDir() (string, error) {
	cacheDir, err := filepath.Abs(Global().CacheDir)
	if err != nil {
		log.Errorf("Failed to resolve cache directory: %v", err)
		return "", fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	return cacheDir, nil
}

func OutputDir() (string, error) {
	outputDir, err := filepath.Abs(Global().OutputDir)
	if err != nil {
		log.Errorf("Failed to resolve output directory: %v", err)
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}
	return outputDir, nil
}

func TempDir() string {
	tempDir := Global().TempDir
	if tempDir == "" {
		return os.TempDir()
	}
	return tempDir
}

func LogLevel() string {
	return Global().Logging.Level
}

func FeedURL() string {
	return Global().Feed.URL
}

func IconsBaseURL() string {
	return Global().Feed.IconsBaseURL
}

func FeedTTL() time.Duration {
	return time.Duration(Global().Feed.TTLHours * float64(time.Hour))
}

func QueryTimeout() time.Duration {
	return time.Duration(Global().Registry.QueryTimeoutSeconds) * time.Second
}
