// internal/workers/recommendation/build-recommendation/config.go
package buildrecommendation

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
