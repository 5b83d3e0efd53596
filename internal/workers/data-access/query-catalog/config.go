// internal/workers/data-access/query-catalog/config.go
package querycatalog

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  15 * time.Second,
		CacheTTL: 5 * time.Minute,
	}
}
