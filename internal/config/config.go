// Package config provides configuration for the movehint service and CLI.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// MOVEHINT_* environment variables. Nothing is read from globals; callers
// pass the resulting Config (or its sections) explicitly.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/lgbarn/movehint-go/internal/chess"
	"github.com/lgbarn/movehint-go/internal/errors"
)

// EnvPrefix is the prefix of every environment variable, e.g.
// MOVEHINT_SERVER_PORT or MOVEHINT_SESSION_PLAYER_COLOUR.
const EnvPrefix = "movehint"

// Store backends.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendMongo  = "mongo"
)

// Log formats.
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Config holds all program configuration.
type Config struct {
	Server  Server  `yaml:"server"`
	Store   Store   `yaml:"store"`
	Mongo   Mongo   `yaml:"mongo"`
	Session Session `yaml:"session"`
	Log     Log     `yaml:"log"`
	Engine  Engine  `yaml:"engine"`
	Output  Output  `yaml:"output"`
	Cache   Cache   `yaml:"cache"`
}

// Server configures the HTTP hint service.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Mode is the gin mode: debug, release or test.
	Mode string `yaml:"mode"`
}

// Store selects and configures the move-history backend.
type Store struct {
	Backend string `yaml:"backend"`

	// Dir is the badger data directory. Empty runs badger in memory.
	Dir string `yaml:"dir"`
}

// Mongo configures the mongo backend.
type Mongo struct {
	Address    string        `yaml:"address"`
	Database   string        `yaml:"database"`
	Collection string        `yaml:"collection"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Session is the per-player state a selection controller needs.
type Session struct {
	ChainID      string `yaml:"chain_id" split_words:"true"`
	Owner        string `yaml:"owner"`
	PlayerColour string `yaml:"player_colour" split_words:"true"`
	DragAndDrop  bool   `yaml:"drag_and_drop" split_words:"true"`
}

// Colour returns the configured player colour.
func (s Session) Colour() (chess.Colour, error) {
	return chess.ParseColour(s.PlayerColour)
}

// Log configures zerolog output.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Engine holds move generation switches.
type Engine struct {
	SafeKingSteps bool `yaml:"safe_king_steps" split_words:"true"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Server: Server{
			Host: "0.0.0.0",
			Port: 8080,
			Mode: "release",
		},
		Store: Store{
			Backend: BackendMemory,
		},
		Mongo: Mongo{
			Address:    "mongodb://localhost:27017",
			Database:   "movehint",
			Collection: "moves",
			Timeout:    5 * time.Second,
		},
		Session: Session{
			PlayerColour: "white",
		},
		Log: Log{
			Level:  "info",
			Format: LogFormatJSON,
		},
		Output: NewOutput(),
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
		if err := cfg.ApplyYAML(data); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyYAML overlays the fields present in data.
func (c *Config) ApplyYAML(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrap(fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err), "parsing yaml")
	}
	return nil
}

// ApplyEnv overlays every MOVEHINT_* variable that is set.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return errors.Wrap(fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err), "reading environment")
	}
	return nil
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendBadger, BackendMongo:
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendMongo && (c.Mongo.Address == "" || c.Mongo.Database == "" || c.Mongo.Collection == "") {
		return errors.Wrap(errors.ErrInvalidConfig, "mongo backend needs address, database and collection")
	}
	if c.Mongo.Timeout <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "mongo timeout %s", c.Mongo.Timeout)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Wrapf(errors.ErrInvalidConfig, "server port %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown server mode %q", c.Server.Mode)
	}
	if _, err := c.Session.Colour(); err != nil {
		return errors.Wrapf(errors.ErrInvalidConfig, "player colour %q", c.Session.PlayerColour)
	}
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case LogFormatJSON, LogFormatConsole:
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown log format %q", c.Log.Format)
	}
	if err := c.Output.validate(); err != nil {
		return err
	}
	return c.Cache.validate()
}

func errorf(format string, args ...interface{}) error {
	return errors.Wrapf(errors.ErrInvalidConfig, format, args...)
}

// Address returns the host:port the server listens on.
func (s Server) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
