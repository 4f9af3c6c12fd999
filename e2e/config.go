package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// SERVER_ADDR targets a running server. Empty starts one in process.
	ServerAddr string `envconfig:"SERVER_ADDR"`
	JWTSecret  string `envconfig:"JWT_SECRET" default:"e2e-secret"`
	// HEARTBEAT_TIMEOUT must match the server when SERVER_ADDR is set
	HeartbeatTimeout time.Duration `envconfig:"HEARTBEAT_TIMEOUT" default:"600ms"`
	// E2E_DEBUG_JSON dumps every frame as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
