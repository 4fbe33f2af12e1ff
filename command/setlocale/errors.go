package setlocale

import (
	"errors"
)

// Failure classes of the pipeline. Every fatal error wraps exactly one of
// these so callers (and tests) can classify it with errors.Is.
var (
	ErrPrivilege     = errors.New("administrative privileges required")
	ErrBackup        = errors.New("manifest backup failed")
	ErrWrite         = errors.New("manifest update failed")
	ErrSwap          = errors.New("swap provisioning failed")
	ErrRegeneration  = errors.New("locale regeneration failed")
	ErrDefaultUpdate = errors.New("default locale update failed")
)
