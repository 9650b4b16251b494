// internal/workers/claims/query-claims/config.go
package queryclaims

import (
	"time"

	"claims-registry/internal/common/config"
)

type Config struct {
	Timeout     time.Duration
	MaxPageSize int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     5 * time.Second,
		MaxPageSize: 100,
	}
}

func FromWorkerConfig(wcfg config.WorkerConfig) *Config {
	cfg := LoadConfig()
	if wcfg.Timeout > 0 {
		cfg.Timeout = time.Duration(wcfg.Timeout) * time.Millisecond
	}
	return cfg
}
