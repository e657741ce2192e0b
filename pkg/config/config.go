/*
Package config manages TOML config for trieserve.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/trieserve/internal/utils"
	"github.com/bastiangx/trieserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Index  IndexConfig  `toml:"index"`
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// IndexConfig has the autocomplete index limits.
type IndexConfig struct {
	MaxSuggestion        int  `toml:"max_suggestion"`
	AllowedMismatchCount int  `toml:"allowed_mismatch_count"`
	IgnoreCase           bool `toml:"ignore_case"`
	// Store selects the value store: "map" or "patricia".
	Store string `toml:"store"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxQueryLen int `toml:"max_query_len"`
	ReloadEvery int `toml:"reload_every"`
}

// DictConfig holds seed corpus options.
type DictConfig struct {
	Path          string `toml:"path"`
	DefaultWeight int    `toml:"default_weight"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowWeights bool `toml:"show_weights"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "trieserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "trieserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/trieserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			MaxSuggestion:        suggest.DefaultMaxSuggestion,
			AllowedMismatchCount: suggest.DefaultAllowedMismatchCount,
			IgnoreCase:           true,
			Store:                "map",
		},
		Server: ServerConfig{
			MaxQueryLen: 60,
			ReloadEvery: 100,
		},
		Dict: DictConfig{
			Path:          "",
			DefaultWeight: 1,
		},
		CLI: CliConfig{
			ShowWeights: true,
		},
	}
}

// IndexOptions converts the [index] section into validated index options.
func (c *Config) IndexOptions() suggest.Options {
	return suggest.Options{
		MaxSuggestion:        c.Index.MaxSuggestion,
		AllowedMismatchCount: c.Index.AllowedMismatchCount,
		CaseSensitive:        !c.Index.IgnoreCase,
	}.Normalize()
}

// NewIndex builds an empty string index from the [index] section.
func (c *Config) NewIndex() *suggest.Index[string] {
	opts := c.IndexOptions()
	switch c.Index.Store {
	case "patricia":
		return suggest.NewWithStore[string](opts, suggest.NewPatriciaStore[string]())
	case "", "map":
	default:
		log.Warnf("Unknown index store %q, using map", c.Index.Store)
	}
	return suggest.New[string](opts)
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if indexSection, ok := utils.ExtractSection(tempConfig, "index"); ok {
		extractIndexConfig(indexSection, &config.Index)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

func extractIndexConfig(data map[string]any, index *IndexConfig) {
	if val, ok := utils.ExtractInt64(data, "max_suggestion"); ok {
		index.MaxSuggestion = val
	}
	if val, ok := utils.ExtractInt64(data, "allowed_mismatch_count"); ok {
		index.AllowedMismatchCount = val
	}
	if val, ok := utils.ExtractBool(data, "ignore_case"); ok {
		index.IgnoreCase = val
	}
	if val, ok := utils.ExtractString(data, "store"); ok {
		index.Store = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_query_len"); ok {
		server.MaxQueryLen = val
	}
	if val, ok := utils.ExtractInt64(data, "reload_every"); ok {
		server.ReloadEvery = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractInt64(data, "default_weight"); ok {
		dict.DefaultWeight = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "show_weights"); ok {
		cli.ShowWeights = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the index limits and saves to file when a path is given
func (c *Config) Update(configPath string, maxSuggestion, allowedMismatch *int) error {
	index := &c.Index
	if maxSuggestion != nil {
		index.MaxSuggestion = *maxSuggestion
	}
	if allowedMismatch != nil {
		index.AllowedMismatchCount = *allowedMismatch
	}
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
