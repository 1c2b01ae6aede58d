package config

import "errors"

var (
	// ErrInvalidConfig marks a value rejected by Validate.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a file or environment layer that could not be read.
	ErrLoadConfig = errors.New("load config failed")
)
