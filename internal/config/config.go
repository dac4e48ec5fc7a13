package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"searchbar/internal/eventbus"
)

const (
	// TriggerKeyUp submits on every key release in the search bar
	TriggerKeyUp = "keyup"
	// TriggerEnter submits only when Enter is released
	TriggerEnter = "enter"

	// DefaultEndpoint is where the bundled server listens by default
	DefaultEndpoint = "http://localhost:8080/"

	configFileName = "config.toml"
)

// Environment variables that override file values
const (
	EnvEndpoint = "SEARCHBAR_ENDPOINT"
	EnvTrigger  = "SEARCHBAR_TRIGGER"
	EnvLogFile  = "SEARCHBAR_LOG_FILE"
)

// Config represents the application configuration
type Config struct {
	Version int `toml:"version"`
	// Endpoint is the base URL that "api/search" is resolved against
	Endpoint string `toml:"endpoint"`
	// Trigger is either "keyup" or "enter"
	Trigger   string `toml:"trigger"`
	TimeoutMs int    `toml:"timeout_ms"` // 0 disables the request timeout
	LogFile   string `toml:"log_file"`

	UISettings UISettings `toml:"ui"`
	Server     Server     `toml:"server"`
}

// UISettings represents terminal UI configuration
type UISettings struct {
	ShowStatus  bool   `toml:"show_status"`
	Placeholder string `toml:"placeholder"`
}

// Server configures `searchbar serve`
type Server struct {
	Addr string `toml:"addr"`
	// Upstream receives relayed api/search requests
	Upstream string `toml:"upstream"`
	// AssetsDir overrides the embedded frontend when set
	AssetsDir string `toml:"assets_dir"`
}

// Timeout returns the configured request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Validate checks the values that the widget depends on
func (c *Config) Validate() error {
	switch strings.ToLower(c.Trigger) {
	case TriggerKeyUp, TriggerEnter:
	default:
		return fmt.Errorf("invalid trigger %q: must be %q or %q", c.Trigger, TriggerKeyUp, TriggerEnter)
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", c.Endpoint)
	}
	if c.TimeoutMs < 0 {
		return errors.New("timeout_ms must not be negative")
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "searchbar", configFileName),
	}
}

// NewConfigServiceAt creates a config service backed by an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// WithBus attaches an event bus to a config service created by this package
func WithBus(svc ConfigService, bus eventbus.EventBus) ConfigService {
	if cs, ok := svc.(*configService); ok {
		cs.bus = bus
	}
	return svc
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when the
// file does not exist
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Endpoint: cfg.Endpoint,
			Trigger:  cfg.Trigger,
		})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path. Missing keys keep
// their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads envFile (if present) into the process environment and then
// overrides config values from SEARCHBAR_* variables. A missing env file is
// not an error.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv(EnvTrigger); v != "" {
		cfg.Trigger = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Endpoint: DefaultEndpoint,
		Trigger:  TriggerKeyUp,
		LogFile:  "searchbar.log",
		UISettings: UISettings{
			ShowStatus:  true,
			Placeholder: "search...",
		},
		Server: Server{
			Addr:     ":8080",
			Upstream: "",
		},
	}
}
