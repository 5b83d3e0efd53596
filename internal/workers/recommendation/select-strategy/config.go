// internal/workers/recommendation/select-strategy/config.go
package selectstrategy

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
