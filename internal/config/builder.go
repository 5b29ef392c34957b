package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithServer sets the listen address.
func (b *ConfigBuilder) WithServer(host string, port int) *ConfigBuilder {
	b.cfg.Server.Host = host
	b.cfg.Server.Port = port
	return b
}

// WithServerMode sets the gin mode.
func (b *ConfigBuilder) WithServerMode(mode string) *ConfigBuilder {
	b.cfg.Server.Mode = mode
	return b
}

// WithStore selects the history backend.
func (b *ConfigBuilder) WithStore(backend, dir string) *ConfigBuilder {
	b.cfg.Store.Backend = backend
	b.cfg.Store.Dir = dir
	return b
}

// WithMongo sets the mongo connection details.
func (b *ConfigBuilder) WithMongo(address, database, collection string, timeout time.Duration) *ConfigBuilder {
	b.cfg.Mongo = Mongo{Address: address, Database: database, Collection: collection, Timeout: timeout}
	return b
}

// WithSession sets the player session.
func (b *ConfigBuilder) WithSession(s Session) *ConfigBuilder {
	b.cfg.Session = s
	return b
}

// WithPlayerColour sets only the session's colour.
func (b *ConfigBuilder) WithPlayerColour(colour string) *ConfigBuilder {
	b.cfg.Session.PlayerColour = colour
	return b
}

// WithLog sets the log level and format.
func (b *ConfigBuilder) WithLog(level, format string) *ConfigBuilder {
	b.cfg.Log.Level = level
	b.cfg.Log.Format = format
	return b
}

// WithSafeKingSteps controls king-step filtering.
func (b *ConfigBuilder) WithSafeKingSteps(enabled bool) *ConfigBuilder {
	b.cfg.Engine.SafeKingSteps = enabled
	return b
}

// WithOutput sets the CLI output format and text wrap width.
func (b *ConfigBuilder) WithOutput(format string, maxLineLength int) *ConfigBuilder {
	b.cfg.Output = Output{Format: format, MaxLineLength: maxLineLength}
	return b
}

// WithCache configures the repeated-board cache.
func (b *ConfigBuilder) WithCache(disabled bool, capacity int) *ConfigBuilder {
	b.cfg.Cache = Cache{Disabled: disabled, Capacity: capacity}
	return b
}
