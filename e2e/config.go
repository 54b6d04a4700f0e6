package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_BEACON_PORT is the UDP port the devices of a scenario discover each other on
	BeaconPort int `envconfig:"E2E_BEACON_PORT" default:"47999"`
	// E2E_TIMEOUT bounds every wait of a scenario
	Timeout time.Duration `envconfig:"E2E_TIMEOUT" default:"5s"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours  bool   `envconfig:"E2E_COLOURS" default:"true"`
	LogLevel string `envconfig:"E2E_LOG_LEVEL" default:"WARN"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
