// Package config builds the raw executor configuration from multiple sources (YAML or
// TOML files, environment variables, CLI flags) with precedence: CLI flags > Environment
// variables > Config file > Defaults. It also determines the values that come from the
// environment rather than from configuration entries: external address, resource ID and
// working directory.
package config
