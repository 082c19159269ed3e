// Package config handles configuration loading for farmchainx.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${FARMCHAINX_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  token_ttl: "24h"
//	server:
//	  shutdown_timeout: "10s"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//	  shutdown_timeout: "10s"
//
// Database:
//
//	database:
//	  path: "/var/lib/farmchainx/farmchainx.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${FARMCHAINX_JWT_SECRET}"  # Required, min 32 chars
//	  token_ttl: "24h"
//	  bcrypt_cost: 10
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - JWT secret presence and minimum length (32 bytes)
//   - bcrypt cost within the library's supported range
//   - Token TTL positivity
//   - Database path presence
//   - Duration format validity
//
// # Usage
//
//	cfg, err := config.Load("/etc/farmchainx/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
