// Package config loads typed configuration from environment variables,
// optionally seeded from .env files.
package config
