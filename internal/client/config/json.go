package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/postplanner/internal/flagx"
	"github.com/dmitrijs2005/postplanner/internal/timex"
)

// JsonConfig is the on-disk form of Config. Fields left out of the file keep
// their current values.
type JsonConfig struct {
	ServerBaseURL  string          `json:"server_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with the file named by -c/-config. It panics on
// read or decode errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
