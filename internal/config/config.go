// Package config holds runtime settings for the simspay client.
//
// Sources are overlaid in order, later ones winning:
// defaults -> environment (.env honored) -> JSON file (-c/-config) -> flags.
package config

import "time"

type Config struct {
	// BaseURL is the root of the remote PPOB API.
	BaseURL string

	// DatabasePath is the sqlite file holding the persisted credential.
	DatabasePath string

	// RequestTimeout bounds every HTTP round trip.
	RequestTimeout time.Duration

	// HistoryPageSize is the page length for transaction history.
	HistoryPageSize int
}

func (c *Config) LoadDefaults() {
	c.BaseURL = "https://take-home-test-api.nutech-integrasi.com"
	c.DatabasePath = "simspay.db"
	c.RequestTimeout = 30 * time.Second
	c.HistoryPageSize = 5
}

// LoadConfig builds the effective configuration from all sources.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
