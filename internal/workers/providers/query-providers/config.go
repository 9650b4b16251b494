// internal/workers/providers/query-providers/config.go
package queryproviders

import (
	"time"

	"claims-registry/internal/common/config"
)

type Config struct {
	Timeout         time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         5 * time.Second,
		DefaultPageSize: 10,
		MaxPageSize:     50,
	}
}

func FromWorkerConfig(wcfg config.WorkerConfig) *Config {
	cfg := LoadConfig()
	if wcfg.Timeout > 0 {
		cfg.Timeout = time.Duration(wcfg.Timeout) * time.Millisecond
	}
	return cfg
}
