// ABOUTME: healthai configuration loaded from defaults, YAML and HEALTHAI_ env vars.
// ABOUTME: Also provides the storage backend factory.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/healthai/internal/charm"
	"github.com/harperreed/healthai/internal/storage"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. HEALTHAI_SERVER_ADDR.
const EnvPrefix = "HEALTHAI_"

// Backends lists the accepted storage backends.
var Backends = []string{"sqlite", "memory", "badger", "redis", "charm"}

const defaultYAML = `
backend: sqlite
server:
  addr: ":8080"
  rate_limit: 2
  rate_burst: 5
  shutdown_timeout: 10s
redis:
  addr: "localhost:6379"
  db: 0
  prefix: "healthai:"
charm:
  host: charm.2389.dev
  db_name: healthai
  auto_sync: true
log:
  level: info
  format: json
insights:
  latency: 0s
`

// Config stores healthai configuration.
type Config struct {
	// Backend selects the storage backend. See Backends.
	Backend string `koanf:"backend" yaml:"backend,omitempty"`

	// DataDir is the root directory for on-disk backends.
	// Supports ~ expansion. Defaults to the XDG data directory.
	DataDir string `koanf:"data_dir" yaml:"data_dir,omitempty"`

	Server   ServerConfig   `koanf:"server" yaml:"server"`
	Redis    RedisConfig    `koanf:"redis" yaml:"redis"`
	Charm    CharmConfig    `koanf:"charm" yaml:"charm"`
	Log      LogConfig      `koanf:"log" yaml:"log"`
	Insights InsightsConfig `koanf:"insights" yaml:"insights"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `koanf:"addr" yaml:"addr"`
	// RateLimit is requests per second per client IP on generation
	// endpoints. Zero disables limiting.
	RateLimit       float64       `koanf:"rate_limit" yaml:"rate_limit"`
	RateBurst       int           `koanf:"rate_burst" yaml:"rate_burst"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr" yaml:"addr"`
	Password string `koanf:"password" yaml:"password,omitempty"`
	DB       int    `koanf:"db" yaml:"db"`
	Prefix   string `koanf:"prefix" yaml:"prefix"`
}

type CharmConfig struct {
	Host     string `koanf:"host" yaml:"host"`
	DBName   string `koanf:"db_name" yaml:"db_name"`
	AutoSync bool   `koanf:"auto_sync" yaml:"auto_sync"`
}

type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// InsightsConfig tunes insight generation and chat.
type InsightsConfig struct {
	// Latency is an artificial delay before generating or answering.
	Latency time.Duration `koanf:"latency" yaml:"latency"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := load(nil)
	if err != nil {
		panic(fmt.Sprintf("invalid default config: %v", err))
	}
	return cfg
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "sqlite"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	valid := false
	for _, b := range Backends {
		if c.GetBackend() == b {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Insights.Latency < 0 {
		return fmt.Errorf("insights.latency must not be negative")
	}
	return nil
}

// StoragePath returns the on-disk location of the sqlite or badger
// backend, or "" for backends that do not live in the data directory.
func (c *Config) StoragePath() string {
	switch c.GetBackend() {
	case "sqlite":
		return storage.DBPath(c.GetDataDir())
	case "badger":
		return filepath.Join(c.GetDataDir(), "badger")
	default:
		return ""
	}
}

// OpenStorage opens the KV backend selected by the configuration.
func (c *Config) OpenStorage(ctx context.Context) (storage.KV, error) {
	backend := c.GetBackend()

	switch backend {
	case "sqlite":
		return storage.Open(c.StoragePath())
	case "memory":
		return storage.NewMemoryKV(), nil
	case "badger":
		return storage.OpenBadger(c.StoragePath())
	case "redis":
		return storage.OpenRedis(ctx, storage.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		})
	case "charm":
		return charm.Open(charm.Options{
			DBName:   c.Charm.DBName,
			Host:     c.Charm.Host,
			AutoSync: c.Charm.AutoSync,
		})
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "healthai", "config.yaml")
}

// Load reads the config file at the default path.
func Load() (*Config, error) {
	return LoadFile(GetConfigPath())
}

// LoadFile reads configuration with precedence defaults < YAML file < env.
// A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return load(content)
}

func load(fileContent []byte) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider([]byte(defaultYAML)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if len(fileContent) > 0 {
		if err := k.Load(rawbytes.Provider(fileContent), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var topLevelKeys = map[string]bool{"backend": true, "data_dir": true}

// envKey maps HEALTHAI_SERVER_RATE_LIMIT to server.rate_limit.
// Only the first underscore after the prefix separates section from field.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if topLevelKeys[lower] {
		return lower
	}
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// Save writes config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config as YAML to path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yamlv3.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
