// internal/workers/recommendation/refine-ranking/config.go
package refineranking

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
