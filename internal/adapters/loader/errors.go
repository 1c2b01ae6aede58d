package loader

import "errors"

// Sentinel kinds for loader errors.
var (
	ErrLoad      = errors.New("load failed")
	ErrDecode    = errors.New("decode failed")
	ErrRulesFile = errors.New("invalid rules file")
)
