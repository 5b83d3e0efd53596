// internal/workers/recommendation/build-vehicle-query/config.go
package buildvehiclequery

import "time"

type Config struct {
	Timeout        time.Duration
	PriceTolerance float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        10 * time.Second,
		PriceTolerance: 500,
	}
}
