// internal/workers/recommendation/score-vehicles/config.go
package scorevehicles

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}
