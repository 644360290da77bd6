package authgate

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines a public type used by authgate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API     APIConfig
	Store   StoreConfig
	Guard   GuardConfig
	Events  EventConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by authgate APIs.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreBackend defines a public type used by authgate APIs.
//
// StoreBackend instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StoreBackend string

const (
	// StoreFile is an exported constant or variable used by the authentication client.
	StoreFile StoreBackend = "file"
	// StoreRedis is an exported constant or variable used by the authentication client.
	StoreRedis StoreBackend = "redis"
	// StoreMemory is an exported constant or variable used by the authentication client.
	StoreMemory StoreBackend = "memory"
)

// StoreConfig defines a public type used by authgate APIs.
//
// StoreConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StoreConfig struct {
	Backend     StoreBackend
	FilePath    string
	RedisAddr   string
	RedisPrefix string
}

/*
====================================
GUARD CONFIG
====================================
*/

// GuardConfig defines a public type used by authgate APIs.
//
// GuardConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type GuardConfig struct {
	PublicRoutes []string
	LoginRoute   string
}

/*
====================================
EVENTS / METRICS CONFIG
====================================
*/

// EventConfig defines a public type used by authgate APIs.
//
// EventConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EventConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by authgate APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:   15 * time.Second,
			UserAgent: "authgate",
		},
		Store: StoreConfig{
			Backend:     StoreFile,
			RedisPrefix: "authgate",
		},
		Guard: GuardConfig{
			PublicRoutes: []string{"/login", "/register", "/forgot-password", "/reset-password"},
			LoginRoute:   "/login",
		},
		Events: EventConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Guard.PublicRoutes = append([]string(nil), cfg.Guard.PublicRoutes...)
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("API BaseURL required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("API BaseURL must be an absolute URL")
	}
	if c.API.Timeout < 0 {
		return errors.New("API Timeout must not be negative")
	}
	switch c.Store.Backend {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return errors.New("Store Backend must be file, redis, or memory")
	}
	if c.Store.Backend == StoreRedis && c.Store.RedisAddr == "" {
		return errors.New("Store RedisAddr required for redis backend")
	}
	if c.Guard.LoginRoute == "" {
		return errors.New("Guard LoginRoute required")
	}
	if c.Events.Enabled && c.Events.BufferSize <= 0 {
		return errors.New("Events BufferSize must be positive when events are enabled")
	}
	return nil
}

// credentialFilePath resolves the file-backend path, defaulting under the
// user config directory when unset.
func (c Config) credentialFilePath() (string, error) {
	if c.Store.FilePath != "" {
		return c.Store.FilePath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "authgate", "credentials.json"), nil
}

// yamlConfig is the on-disk shape. Durations are Go duration strings.
type yamlConfig struct {
	API struct {
		BaseURL   string `yaml:"base_url"`
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"api"`
	Store struct {
		Backend     string `yaml:"backend"`
		FilePath    string `yaml:"file_path"`
		RedisAddr   string `yaml:"redis_addr"`
		RedisPrefix string `yaml:"redis_prefix"`
	} `yaml:"store"`
	Guard struct {
		PublicRoutes []string `yaml:"public_routes"`
		LoginRoute   string   `yaml:"login_route"`
	} `yaml:"guard"`
	Events struct {
		Enabled    bool `yaml:"enabled"`
		BufferSize int  `yaml:"buffer_size"`
		DropIfFull bool `yaml:"drop_if_full"`
	} `yaml:"events"`
	Metrics struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// LoadConfig describes the loadconfig operation and its observable behavior.
//
// LoadConfig may return an error when input validation, dependency calls, or security checks fail.
// Unset fields keep their defaults; the loaded config is validated before it
// is returned.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, err
	}

	cfg := defaultConfig()
	if raw.API.BaseURL != "" {
		cfg.API.BaseURL = raw.API.BaseURL
	}
	if raw.API.Timeout != "" {
		d, err := time.ParseDuration(raw.API.Timeout)
		if err != nil {
			return Config{}, errors.New("invalid api.timeout duration")
		}
		cfg.API.Timeout = d
	}
	if raw.API.UserAgent != "" {
		cfg.API.UserAgent = raw.API.UserAgent
	}
	if raw.Store.Backend != "" {
		cfg.Store.Backend = StoreBackend(raw.Store.Backend)
	}
	if raw.Store.FilePath != "" {
		cfg.Store.FilePath = raw.Store.FilePath
	}
	if raw.Store.RedisAddr != "" {
		cfg.Store.RedisAddr = raw.Store.RedisAddr
	}
	if raw.Store.RedisPrefix != "" {
		cfg.Store.RedisPrefix = raw.Store.RedisPrefix
	}
	if len(raw.Guard.PublicRoutes) > 0 {
		cfg.Guard.PublicRoutes = raw.Guard.PublicRoutes
	}
	if raw.Guard.LoginRoute != "" {
		cfg.Guard.LoginRoute = raw.Guard.LoginRoute
	}
	cfg.Events.Enabled = raw.Events.Enabled
	if raw.Events.BufferSize > 0 {
		cfg.Events.BufferSize = raw.Events.BufferSize
	}
	if raw.Events.Enabled {
		cfg.Events.DropIfFull = raw.Events.DropIfFull
	}
	if raw.Metrics.Enabled != nil {
		cfg.Metrics.Enabled = *raw.Metrics.Enabled
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
