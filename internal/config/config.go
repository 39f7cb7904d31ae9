package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"zask/internal/eventbus"
	"zask/internal/logging"
)

// EnvPrefix is prepended to every environment override (api.base_url -> ZASK_API_BASE_URL)
const EnvPrefix = "ZASK"

// Config represents the application configuration
type Config struct {
	Version int            `mapstructure:"version"`
	DataDir string         `mapstructure:"data_dir"`
	API     APIConfig      `mapstructure:"api"`
	Search  SearchConfig   `mapstructure:"search"`
	Log     logging.Config `mapstructure:"log"`
}

// APIConfig addresses the application backend
type APIConfig struct {
	// BaseURL is the configured API base; when empty Origin is used
	BaseURL string        `mapstructure:"base_url"`
	Origin  string        `mapstructure:"origin"`
	Timeout time.Duration `mapstructure:"timeout"`

	// SessionCookie is a "name=value" cookie copied from a signed-in browser
	SessionCookie string `mapstructure:"session_cookie"`
}

// SearchConfig tunes the player lookup
type SearchConfig struct {
	LocalURL          string        `mapstructure:"local_url"`
	Debounce          time.Duration `mapstructure:"debounce"`
	Timeout           time.Duration `mapstructure:"timeout"`
	PageSize          int           `mapstructure:"page_size"`
	LoadMoreSize      int           `mapstructure:"load_more_size"`
	LoadMoreThreshold int           `mapstructure:"load_more_threshold"`
	REST              RESTConfig    `mapstructure:"rest"`
}

// RESTConfig addresses the backend-as-a-service used as the last search candidate
type RESTConfig struct {
	URL     string `mapstructure:"url"`
	AnonKey string `mapstructure:"anon_key"`
	Table   string `mapstructure:"table"`
}

// ResolvedBaseURL returns the API base, falling back to the origin when unset
func (c APIConfig) ResolvedBaseURL() string {
	if strings.TrimSpace(c.BaseURL) != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return strings.TrimRight(c.Origin, "/")
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	LoadFile() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	flags    *pflag.FlagSet
	filePath string
}

// DefaultDir returns the per-user zask directory
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "zask")
}

// NewConfigService creates a config service for path. An empty path means
// config.toml in the default directory. Flags, when given, override file and env values.
func NewConfigService(path string, flags *pflag.FlagSet) ConfigService {
	if path == "" {
		path = filepath.Join(DefaultDir(), "config.toml")
	}
	return &configService{
		flags:    flags,
		filePath: path,
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, flags *pflag.FlagSet, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path, flags).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the service's file; a missing file yields defaults
func (cs *configService) Load() (*Config, error) {
	return cs.load(cs.filePath, false, true)
}

// LoadFile loads only what the file and defaults say, ignoring the environment,
// flags and derived values. Use it to edit and save the file back.
func (cs *configService) LoadFile() (*Config, error) {
	return cs.load(cs.filePath, false, false)
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path, which must exist
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	return cs.load(path, true, true)
}

// SaveToPath writes configuration as TOML to a specific path. The file may
// hold a session cookie, so it is replaced atomically and kept owner-only.
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(toFile(config))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// load reads path into a Config. Layered loads apply the environment, flags
// and derived values on top of the file.
func (cs *configService) load(path string, mustExist, layered bool) (*Config, error) {
	v := newViper(layered)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			if mustExist {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if layered && cs.flags != nil {
		if err := bindFlags(v, cs.flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	if layered {
		cfg.derive()
	}

	return &cfg, nil
}

// flagKeys maps command-line flags onto config keys
var flagKeys = map[string]string{
	"log-level": "log.level",
	"api":       "api.base_url",
	"data-dir":  "data_dir",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func newViper(withEnv bool) *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")

	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.origin", d.API.Origin)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.session_cookie", d.API.SessionCookie)
	v.SetDefault("search.local_url", d.Search.LocalURL)
	v.SetDefault("search.debounce", d.Search.Debounce)
	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.page_size", d.Search.PageSize)
	v.SetDefault("search.load_more_size", d.Search.LoadMoreSize)
	v.SetDefault("search.load_more_threshold", d.Search.LoadMoreThreshold)
	v.SetDefault("search.rest.url", d.Search.REST.URL)
	v.SetDefault("search.rest.anon_key", d.Search.REST.AnonKey)
	v.SetDefault("search.rest.table", d.Search.REST.Table)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.pretty", d.Log.Pretty)

	return v
}

// normalize replaces missing or nonsensical values with defaults
func (c *Config) normalize() {
	d := DefaultConfig()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = d.Search.PageSize
	}
	if c.Search.LoadMoreSize <= 0 {
		c.Search.LoadMoreSize = d.Search.LoadMoreSize
	}
	if c.Search.LoadMoreThreshold < 0 {
		c.Search.LoadMoreThreshold = d.Search.LoadMoreThreshold
	}
	if c.Search.Debounce < 0 {
		c.Search.Debounce = d.Search.Debounce
	}
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = d.Search.Timeout
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = d.API.Timeout
	}
	if c.Search.REST.Table == "" {
		c.Search.REST.Table = d.Search.REST.Table
	}
}

// derive fills values computed from others; they are never written back
func (c *Config) derive() {
	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.DataDir, "zask.log")
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		DataDir: DefaultDir(),
		API: APIConfig{
			Origin:  "https://api.zask.kr/api",
			Timeout: 10 * time.Second,
		},
		Search: SearchConfig{
			LocalURL:          "http://localhost:3000/api",
			Debounce:          250 * time.Millisecond,
			Timeout:           8 * time.Second,
			PageSize:          30,
			LoadMoreSize:      10,
			LoadMoreThreshold: 2,
			REST: RESTConfig{
				Table: "player_cards_min",
			},
		},
		Log: logging.Config{
			Level: "info",
		},
	}
}

// fileConfig is the on-disk layout; durations are written as strings ("250ms")
type fileConfig struct {
	Version int        `toml:"version"`
	DataDir string     `toml:"data_dir"`
	API     fileAPI    `toml:"api"`
	Search  fileSearch `toml:"search"`
	Log     fileLog    `toml:"log"`
}

type fileAPI struct {
	BaseURL       string `toml:"base_url"`
	Origin        string `toml:"origin"`
	Timeout       string `toml:"timeout"`
	SessionCookie string `toml:"session_cookie,omitempty"`
}

type fileSearch struct {
	LocalURL          string   `toml:"local_url"`
	Debounce          string   `toml:"debounce"`
	Timeout           string   `toml:"timeout"`
	PageSize          int      `toml:"page_size"`
	LoadMoreSize      int      `toml:"load_more_size"`
	LoadMoreThreshold int      `toml:"load_more_threshold"`
	REST              fileREST `toml:"rest"`
}

type fileREST struct {
	URL     string `toml:"url"`
	AnonKey string `toml:"anon_key"`
	Table   string `toml:"table"`
}

type fileLog struct {
	Level  string `toml:"level"`
	File   string `toml:"file,omitempty"`
	Pretty bool   `toml:"pretty"`
}

func toFile(c *Config) fileConfig {
	return fileConfig{
		Version: c.Version,
		DataDir: c.DataDir,
		API: fileAPI{
			BaseURL:       c.API.BaseURL,
			Origin:        c.API.Origin,
			Timeout:       c.API.Timeout.String(),
			SessionCookie: c.API.SessionCookie,
		},
		Search: fileSearch{
			LocalURL:          c.Search.LocalURL,
			Debounce:          c.Search.Debounce.String(),
			Timeout:           c.Search.Timeout.String(),
			PageSize:          c.Search.PageSize,
			LoadMoreSize:      c.Search.LoadMoreSize,
			LoadMoreThreshold: c.Search.LoadMoreThreshold,
			REST: fileREST{
				URL:     c.Search.REST.URL,
				AnonKey: c.Search.REST.AnonKey,
				Table:   c.Search.REST.Table,
			},
		},
		Log: fileLog{
			Level:  c.Log.Level,
			File:   c.Log.File,
			Pretty: c.Log.Pretty,
		},
	}
}
