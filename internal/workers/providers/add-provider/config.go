// internal/workers/providers/add-provider/config.go
package addprovider

import (
	"time"

	"claims-registry/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Notify  bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Notify:  true,
	}
}

func FromWorkerConfig(wcfg config.WorkerConfig) *Config {
	cfg := LoadConfig()
	if wcfg.Timeout > 0 {
		cfg.Timeout = time.Duration(wcfg.Timeout) * time.Millisecond
	}
	return cfg
}
