// Package config defines the application configuration structures and
// loading logic. Configuration is read from an optional config file and
// from environment variables with the LEDGER_ prefix, environment
// variables taking precedence.
package config
