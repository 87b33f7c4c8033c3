// Package config loads qdiagx settings from YAML with environment
// overrides.
package config
