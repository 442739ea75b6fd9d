// internal/workers/matching/compute-category-budget/config.go
package computecategorybudget

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
