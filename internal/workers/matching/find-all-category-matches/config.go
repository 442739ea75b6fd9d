// internal/workers/matching/find-all-category-matches/config.go
package findallcategorymatches

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}
