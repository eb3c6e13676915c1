package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/logging"
)

var (
	cfgFile = "tictactoe/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s", e.err)
}

// Duration reads and writes time.Duration as a string such as "30m".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return &InvalidConfig{fmt.Sprintf("bad duration %q: %v", s, err)}
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

type SessionConfig struct {
	TTL           Duration `json:"ttl"`
	SweepInterval Duration `json:"sweep_interval"`
}

type WebConfig struct {
	Heartbeat Duration `json:"heartbeat"`
}

type Config struct {
	Addr     string        `json:"addr"`
	Log      LogConfig     `json:"log"`
	Sessions SessionConfig `json:"sessions"`
	Web      WebConfig     `json:"web"`
}

// Load starts from DefaultConfig, overlays the file at path (or the first
// XDG config file found when path is empty), then the environment.
func Load(path string) (*Config, error) {
	config := DefaultConfig
	if path == "" {
		if found, err := xdg.SearchConfigFile(cfgFile); err == nil {
			path = found
		}
	}
	if path != "" {
		if err := readCfgFile(path, &config); err != nil {
			return nil, err
		}
	}
	config.applyEnv(os.LookupEnv)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("TICTACTOE_ADDR"); ok && v != "" {
		c.Addr = v
	}
	if v, ok := lookup("TICTACTOE_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("TICTACTOE_LOG_FORMAT"); ok && v != "" {
		c.Log.Format = v
	}
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return &InvalidConfig{"addr must not be empty"}
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return &InvalidConfig{fmt.Sprintf("unknown log level %q", c.Log.Level)}
	}
	switch c.Log.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return &InvalidConfig{fmt.Sprintf("unknown log format %q", c.Log.Format)}
	}
	for _, d := range []struct {
		name string
		val  Duration
	}{
		{"sessions.ttl", c.Sessions.TTL},
		{"sessions.sweep_interval", c.Sessions.SweepInterval},
		{"web.heartbeat", c.Web.Heartbeat},
	} {
		if d.val <= 0 {
			return &InvalidConfig{d.name + " must be positive"}
		}
	}
	return nil
}

// Save writes the config to path, or to the XDG config location when
// path is empty, and returns the path written.
func (c *Config) Save(path string) (string, error) {
	if path == "" {
		p, err := xdg.ConfigFile(cfgFile)
		if err != nil {
			return "", err
		}
		path = p
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, jsonData, 0o664)
}

func readCfgFile(filePath string, a any) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read config %s: %w", filePath, err)
	}
	if err := json.Unmarshal(data, a); err != nil {
		return fmt.Errorf("parse config %s: %w", filePath, err)
	}
	return nil
}
