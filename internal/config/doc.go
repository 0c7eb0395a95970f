// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file, a .env file, environment variables
// and command-line flags. It provides type-safe access to application
// settings while keeping configuration details separate from business logic.
package config
