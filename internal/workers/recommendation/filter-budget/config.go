// internal/workers/recommendation/filter-budget/config.go
package filterbudget

import "time"

type Config struct {
	Timeout time.Duration

	// BudgetTolerance widens the affordability window on both sides.
	BudgetTolerance float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		BudgetTolerance: 500,
	}
}
