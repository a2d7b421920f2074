// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/tint/internal/logger"
	"gopkg.in/yaml.v3"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config                     `toml:"logger" yaml:"logger"`
	Editor  EditorConfig                      `toml:"editor" yaml:"editor"`
	Export  ExportConfig                      `toml:"export" yaml:"export"`
	TUI     TUIConfig                         `toml:"tui" yaml:"tui"`
	Plugins map[string]map[string]interface{} `toml:"plugins" yaml:"plugins"` // Free-form per-plugin tables
}

// EditorConfig holds editing-session settings.
type EditorConfig struct {
	HistoryLimit int `toml:"history_limit" yaml:"history_limit"`
	QueueSize    int `toml:"queue_size" yaml:"queue_size"`
}

// ExportConfig controls where and how images are saved.
type ExportConfig struct {
	Directory string `toml:"directory" yaml:"directory"`
	Format    string `toml:"format" yaml:"format"`
	Quality   int    `toml:"quality" yaml:"quality"`
	CopyPath  bool   `toml:"copy_path" yaml:"copy_path"` // Copy saved paths to the system clipboard
}

// TUIConfig holds terminal front-end settings.
type TUIConfig struct {
	RegionStep     int           `toml:"region_step" yaml:"region_step"`
	MessageTimeout time.Duration `toml:"message_timeout" yaml:"message_timeout"`
	Theme          string        `toml:"theme" yaml:"theme"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel:    "info",
			LogFilePath: "",
		},
		Editor: EditorConfig{
			HistoryLimit: DefaultHistoryLimit,
			QueueSize:    DefaultQueueSize,
		},
		Export: ExportConfig{
			Directory: DefaultExportDirectory,
			Format:    DefaultExportFormat,
			Quality:   DefaultExportQuality,
		},
		TUI: TUIConfig{
			RegionStep:     DefaultRegionStep,
			MessageTimeout: MessageTimeout,
		},
		Plugins: make(map[string]map[string]interface{}),
	}
}

// isYAML reports whether path names a YAML file.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// loadFromFile decodes filePath over cfg. A missing file is not an error.
func loadFromFile(filePath string, cfg *Config) (bool, error) {
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading config file '%s': %w", filePath, err)
	}

	if isYAML(filePath) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return false, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
		}
		return true, nil
	}

	metadata, err := toml.Decode(string(data), cfg)
	if err != nil {
		return false, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	return true, nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if c.Editor.HistoryLimit < 0 {
		c.Editor.HistoryLimit = defaults.Editor.HistoryLimit
	}
	if c.Editor.QueueSize <= 0 {
		c.Editor.QueueSize = defaults.Editor.QueueSize
	}
	if c.Export.Directory == "" {
		c.Export.Directory = defaults.Export.Directory
	}
	switch strings.ToLower(c.Export.Format) {
	case "png", "jpg", "jpeg", "tif", "tiff", "bmp", "gif":
		c.Export.Format = strings.ToLower(c.Export.Format)
	default:
		c.Export.Format = defaults.Export.Format
	}
	if c.Export.Quality <= 0 || c.Export.Quality > 100 {
		c.Export.Quality = defaults.Export.Quality
	}
	if c.TUI.RegionStep <= 0 {
		c.TUI.RegionStep = defaults.TUI.RegionStep
	}
	if c.TUI.MessageTimeout <= 0 {
		c.TUI.MessageTimeout = defaults.TUI.MessageTimeout
	}
	if c.Plugins == nil {
		c.Plugins = make(map[string]map[string]interface{})
	}
}

// DefaultPath returns the first existing default config file, or the TOML
// location when none exists. Empty if the config directory is unknown.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(configDir, AppName)
	for _, name := range []string{DefaultConfigFileName, DefaultYAMLConfigFileName} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(dir, DefaultConfigFileName)
}

// ThemesDir returns the directory user themes are loaded from.
func ThemesDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, AppName, ThemesDirName)
}

// Load builds a configuration from defaults, the file at configFilePath (the
// default location when empty) and flag overrides, then validates it.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultPath()
	}

	var err error
	if effectivePath != "" {
		_, err = loadFromFile(effectivePath, cfg)
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, err
}

// LoadConfig loads the configuration once and stores it for Get.
// It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(configFilePath, flags)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}

// PluginConfig returns the table configured for a plugin, if any.
func (c *Config) PluginConfig(name string) (map[string]interface{}, bool) {
	table, ok := c.Plugins[name]
	return table, ok
}
