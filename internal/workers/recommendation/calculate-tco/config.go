// internal/workers/recommendation/calculate-tco/config.go
package calculatetco

import "time"

type Config struct {
	Timeout        time.Duration
	OwnershipYears int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        15 * time.Second,
		OwnershipYears: 5,
	}
}
