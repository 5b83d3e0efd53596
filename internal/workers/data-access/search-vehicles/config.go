// internal/workers/data-access/search-vehicles/config.go
package searchvehicles

import "time"

type Config struct {
	Timeout       time.Duration
	Index         string
	DefaultLimit  int
	MaxLimit      int
	NumCandidates int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		Index:         "vehicles",
		DefaultLimit:  20,
		MaxLimit:      100,
		NumCandidates: 200,
	}
}
