// Package adapter holds the configuration and logging glue between the
// environment and the application packages.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Account   AccountConfig   `mapstructure:"account"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Updates   UpdatesConfig   `mapstructure:"updates"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// AccountConfig identifies the reader. A named account with a sync URL is
// what makes the library portable between machines; without one the app
// runs local-only and update sweeps stay off.
type AccountConfig struct {
	Username string `mapstructure:"username"`
	SyncURL  string `mapstructure:"sync_url"` // Redis URL, e.g. redis://host:6379/0
}

// HasDurableIdentity reports whether the account is a real named account
// backed by a sync server, rather than an anonymous local session. Update
// checks are gated on this.
func (a AccountConfig) HasDurableIdentity() bool {
	return a.Username != "" && a.SyncURL != ""
}

// ProvidersConfig allows per-provider base URL overrides, mostly for
// self-hosted mirrors and tests.
type ProvidersConfig struct {
	JikanURL    string `mapstructure:"jikan_url"`
	MangadexURL string `mapstructure:"mangadex_url"`
	KitsuURL    string `mapstructure:"kitsu_url"`
	AniListURL  string `mapstructure:"anilist_url"`
	Default     string `mapstructure:"default"` // search mode: "auto" or a provider name
}

// UpdatesConfig tunes the update sweep.
type UpdatesConfig struct {
	CheckOnStart bool `mapstructure:"check_on_start"` // run the periodic sweep when the CLI starts
}

// StorageConfig selects where the library lives.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"` // empty disables persistence
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Providers: ProvidersConfig{
			Default: "auto",
		},
		Updates: UpdatesConfig{
			CheckOnStart: true,
		},
		Storage: StorageConfig{
			DataDir: defaultDataPath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "mangatrack", "mangatrack.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "mangatrack", "mangatrack.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "mangatrack")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "mangatrack")
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "mangatrack", "data")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "mangatrack", "data")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("MANGATRACK")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("account.username", cfg.Account.Username)
	viper.Set("account.sync_url", cfg.Account.SyncURL)

	viper.Set("providers.jikan_url", cfg.Providers.JikanURL)
	viper.Set("providers.mangadex_url", cfg.Providers.MangadexURL)
	viper.Set("providers.kitsu_url", cfg.Providers.KitsuURL)
	viper.Set("providers.anilist_url", cfg.Providers.AniListURL)
	viper.Set("providers.default", cfg.Providers.Default)

	viper.Set("updates.check_on_start", cfg.Updates.CheckOnStart)

	viper.Set("storage.data_dir", cfg.Storage.DataDir)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClearAccount removes the account section while preserving all other
// settings. The library data itself is untouched.
func ClearAccount() error {
	viper.Set("account.username", "")
	viper.Set("account.sync_url", "")

	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
