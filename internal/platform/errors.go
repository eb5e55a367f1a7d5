package platform

import "errors"

// Error taxonomy for adapter and registry failures. Adapters wrap these
// sentinels so callers can branch with errors.Is without knowing the
// platform-specific cause.
var (
	// ErrConnection: upstream unreachable or credentials rejected. Fatal
	// for the task that hits it.
	ErrConnection = errors.New("platform connection failed")

	// ErrUserNotFound: the upstream has no such identity. Fatal, the task
	// fails without looping.
	ErrUserNotFound = errors.New("platform user not found")

	// ErrItemConversion: a single upstream item could not be converted.
	// Recoverable; the item is skipped and the page continues.
	ErrItemConversion = errors.New("platform item conversion failed")

	// ErrUnknownPlatform: no adapter registered for the platform type.
	ErrUnknownPlatform = errors.New("unknown platform type")

	// ErrConfig: required adapter configuration is missing or invalid.
	ErrConfig = errors.New("invalid platform configuration")
)
