// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional
// config.yaml. It provides type-safe access to the settings needed by the
// server, the database layer and the authenticator.
package config
