// Package config loads runtime configuration for shiftlyctl.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with --config.
//  3. Environment: SHIFTLY_ADDR, SHIFTLY_TOKEN, SHIFTLY_TIMEOUT.
//  4. Command-line flags, applied by the cli package.
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "<jwt>",
//	  "request_timeout": "30s"
//	}
package config
