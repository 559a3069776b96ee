package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration accepts either a string like "30s" or integer nanoseconds,
// so JSON config files can use the readable form.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
	return nil
}

// jsonConfig is a DTO used exclusively for JSON unmarshalling; parsed
// values are copied into the runtime Config.
type jsonConfig struct {
	BaseURL         string   `json:"base_url"`
	DatabasePath    string   `json:"database_path"`
	RequestTimeout  Duration `json:"request_timeout"`
	HistoryPageSize int      `json:"history_page_size"`
}

// parseJSON overlays Config with values from the file named by the
// -c/-config flag. Absent flag means no JSON stage. Unreadable or
// malformed files panic: a config file that exists but cannot be used
// is a deployment mistake worth failing loudly on.
func parseJSON(cfg *Config) {
	path := configFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RequestTimeout != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout)
	}
	if jc.HistoryPageSize > 0 {
		cfg.HistoryPageSize = jc.HistoryPageSize
	}
}
