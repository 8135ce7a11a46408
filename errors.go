package snapconf

import "errors"

// Common errors used throughout the snapconf package.
var (
	// ErrConfigLoad is returned when the configuration file cannot be read.
	ErrConfigLoad = errors.New("failed to load configuration file")
	// ErrConfigParse is returned when the configuration file is not valid YAML.
	ErrConfigParse = errors.New("failed to parse configuration file")
	// ErrConfigValidation is returned when the configuration is structurally
	// valid but semantically incomplete.
	ErrConfigValidation = errors.New("configuration validation failed")
)
