package research

import "errors"

var (
	// ErrNoRunner is returned when a loop is built without a runner.
	ErrNoRunner = errors.New("research runner is required")

	// ErrNoSource is returned when a loop is built without a gap source.
	ErrNoSource = errors.New("gap source is required")

	// ErrUnknownRunner is returned for an unsupported runner name.
	ErrUnknownRunner = errors.New("unknown research runner")
)
