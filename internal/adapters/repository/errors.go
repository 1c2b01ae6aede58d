package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNotFound       = errors.New("snapshot not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrInvalidDriver  = errors.New("unsupported database driver")
)
