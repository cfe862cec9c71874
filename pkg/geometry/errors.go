package geometry

import "errors"

var (
	// ErrInsufficientInput is returned when fewer than two lines are solved
	ErrInsufficientInput = errors.New("at least 2 lines are required")

	// ErrDegenerateDirection is returned when a direction vector has near-zero length
	ErrDegenerateDirection = errors.New("degenerate direction")

	// ErrSingularSystem is returned when the lines are parallel or otherwise
	// do not determine a unique closest point
	ErrSingularSystem = errors.New("singular system")

	// ErrNoProfileFound is returned when no valid annular profile can be built,
	// e.g. for a non-finite target or a non-positive radius
	ErrNoProfileFound = errors.New("no profile found")
)
