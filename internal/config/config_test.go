package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lgbarn/movehint-go/internal/chess"
	"github.com/lgbarn/movehint-go/internal/errors"
	"github.com/lgbarn/movehint-go/internal/testutil"
)

// TestNewConfig_Defaults verifies Config has sensible defaults
func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	testutil.AssertEqual(t, cfg.Server.Port, 8080)
	testutil.AssertEqual(t, cfg.Server.Mode, "release")
	testutil.AssertEqual(t, cfg.Store.Backend, BackendMemory)
	testutil.AssertEqual(t, cfg.Mongo.Timeout, 5*time.Second)
	testutil.AssertEqual(t, cfg.Log.Format, LogFormatJSON)
	testutil.AssertFalse(t, cfg.Engine.SafeKingSteps, "king steps are pseudo-legal by default")
	testutil.AssertFalse(t, cfg.Session.DragAndDrop)
	testutil.AssertEqual(t, cfg.Output.Format, OutputJSONLines)
	testutil.AssertEqual(t, cfg.Cache, Cache{})
	testutil.AssertNoError(t, cfg.Validate())

	colour, err := cfg.Session.Colour()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, colour, chess.White)
}

func TestConfigBuilder(t *testing.T) {
	cfg := NewConfigBuilder().
		WithServer("127.0.0.1", 9000).
		WithServerMode("test").
		WithStore(BackendBadger, "/tmp/moves").
		WithMongo("mongodb://db:27017", "games", "history", time.Second).
		WithSession(Session{ChainID: "chain-1", Owner: "alice", PlayerColour: "black", DragAndDrop: true}).
		WithLog("debug", LogFormatConsole).
		WithSafeKingSteps(true).
		WithOutput(OutputText, 60).
		WithCache(false, 1000).
		Build()

	want := &Config{
		Server:  Server{Host: "127.0.0.1", Port: 9000, Mode: "test"},
		Store:   Store{Backend: BackendBadger, Dir: "/tmp/moves"},
		Mongo:   Mongo{Address: "mongodb://db:27017", Database: "games", Collection: "history", Timeout: time.Second},
		Session: Session{ChainID: "chain-1", Owner: "alice", PlayerColour: "black", DragAndDrop: true},
		Log:     Log{Level: "debug", Format: LogFormatConsole},
		Engine:  Engine{SafeKingSteps: true},
		Output:  Output{Format: OutputText, MaxLineLength: 60},
		Cache:   Cache{Capacity: 1000},
	}
	testutil.AssertEqual(t, cfg, want)
	testutil.AssertEqual(t, cfg.Server.Address(), "127.0.0.1:9000")
	testutil.AssertNoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"unknown backend", NewConfigBuilder().WithStore("redis", "").Build()},
		{"mongo without database", NewConfigBuilder().WithStore(BackendMongo, "").WithMongo("mongodb://x", "", "c", time.Second).Build()},
		{"zero timeout", NewConfigBuilder().WithMongo("mongodb://x", "d", "c", 0).Build()},
		{"bad port", NewConfigBuilder().WithServer("", 70000).Build()},
		{"bad mode", NewConfigBuilder().WithServerMode("turbo").Build()},
		{"bad colour", NewConfigBuilder().WithPlayerColour("green").Build()},
		{"bad level", NewConfigBuilder().WithLog("loud", LogFormatJSON).Build()},
		{"bad format", NewConfigBuilder().WithLog("info", "xml").Build()},
		{"bad output format", NewConfigBuilder().WithOutput("yaml", 80).Build()},
		{"negative cache capacity", NewConfigBuilder().WithCache(false, -1).Build()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertErrorIs(t, tt.cfg.Validate(), errors.ErrInvalidConfig)
		})
	}
}

func TestApplyYAML(t *testing.T) {
	cfg := NewConfig()
	err := cfg.ApplyYAML([]byte(`
server:
  port: 9090
store:
  backend: badger
  dir: /var/lib/movehint
mongo:
  timeout: 2s
session:
  chain_id: abc
  player_colour: black
  drag_and_drop: true
engine:
  safe_king_steps: true
output:
  format: text
cache:
  capacity: 500
`))
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, cfg.Server.Port, 9090)
	testutil.AssertEqual(t, cfg.Server.Host, "0.0.0.0", "untouched fields keep defaults")
	testutil.AssertEqual(t, cfg.Store, Store{Backend: BackendBadger, Dir: "/var/lib/movehint"})
	testutil.AssertEqual(t, cfg.Mongo.Timeout, 2*time.Second)
	testutil.AssertEqual(t, cfg.Mongo.Database, "movehint")
	testutil.AssertEqual(t, cfg.Session, Session{ChainID: "abc", PlayerColour: "black", DragAndDrop: true})
	testutil.AssertTrue(t, cfg.Engine.SafeKingSteps)
	testutil.AssertEqual(t, cfg.Output, Output{Format: OutputText, MaxLineLength: 80})
	testutil.AssertEqual(t, cfg.Cache, Cache{Capacity: 500})

	testutil.AssertErrorIs(t, cfg.ApplyYAML([]byte("server: [")), errors.ErrInvalidConfig)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MOVEHINT_SERVER_PORT", "7000")
	t.Setenv("MOVEHINT_SESSION_CHAIN_ID", "env-chain")
	t.Setenv("MOVEHINT_SESSION_PLAYER_COLOUR", "black")
	t.Setenv("MOVEHINT_ENGINE_SAFE_KING_STEPS", "true")
	t.Setenv("MOVEHINT_MONGO_TIMEOUT", "750ms")
	t.Setenv("MOVEHINT_OUTPUT_MAX_LINE_LENGTH", "100")
	t.Setenv("MOVEHINT_CACHE_DISABLED", "true")

	cfg := NewConfig()
	testutil.AssertNoError(t, cfg.ApplyEnv())

	testutil.AssertEqual(t, cfg.Server.Port, 7000)
	testutil.AssertEqual(t, cfg.Session.ChainID, "env-chain")
	testutil.AssertEqual(t, cfg.Session.PlayerColour, "black")
	testutil.AssertTrue(t, cfg.Engine.SafeKingSteps)
	testutil.AssertEqual(t, cfg.Mongo.Timeout, 750*time.Millisecond)
	testutil.AssertEqual(t, cfg.Output.MaxLineLength, 100)
	testutil.AssertTrue(t, cfg.Cache.Disabled)
	testutil.AssertEqual(t, cfg.Log.Level, "info", "unset variables leave values alone")

	t.Setenv("MOVEHINT_SERVER_PORT", "not-a-number")
	testutil.AssertErrorIs(t, NewConfig().ApplyEnv(), errors.ErrInvalidConfig)
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movehint.yaml")
	data := []byte("server:\n  port: 9090\n  host: 127.0.0.1\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MOVEHINT_SERVER_PORT", "7000")

	cfg, err := Load(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Server.Port, 7000, "environment beats file")
	testutil.AssertEqual(t, cfg.Server.Host, "127.0.0.1", "file beats default")
	testutil.AssertEqual(t, cfg.Log.Level, "debug")
	testutil.AssertEqual(t, cfg.Log.Format, LogFormatJSON, "default kept")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	testutil.AssertError(t, err)

	t.Setenv("MOVEHINT_STORE_BACKEND", "cassandra")
	_, err = Load("")
	testutil.AssertErrorIs(t, err, errors.ErrInvalidConfig)
}
