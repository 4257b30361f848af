// Package config loads runtime configuration for the dashboard CLI.
//
// Sources, in order of precedence (last wins):
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Supported flags
//
//	-a string   base URL of the PostPlanner HTTP API
//	-t int      request timeout (seconds)
//
// JSON example (durations as "10s" or integer nanoseconds):
//
//	{
//	  "server_base_url": "http://127.0.0.1:5000",
//	  "request_timeout": "10s"
//	}
package config
