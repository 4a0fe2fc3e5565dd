// Package config loads runtime configuration for the fleet console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the admin API
//	-e string   URL of the push event stream
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "15s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "https://api.citycarcenters.com/api/v1/secure/route/admin",
//	  "events_url": "https://api.citycarcenters.com/api/v1/events",
//	  "request_timeout": "15s"
//	}
package config
