package config

import (
	"time"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/logging"
)

var DefaultConfig = Config{
	Addr: ":8080",
	Log: LogConfig{
		Level:  "info",
		Format: logging.FormatConsole,
	},
	Sessions: SessionConfig{
		TTL:           Duration(2 * time.Hour),
		SweepInterval: Duration(5 * time.Minute),
	},
	Web: WebConfig{
		Heartbeat: Duration(15 * time.Second),
	},
}
