package dynamo

import "errors"

// Domain errors for simulation setup and persistence.
var (
	// ErrUnknownCameraMode indicates a camera mode name outside the supported set.
	ErrUnknownCameraMode = errors.New("dynamo: unknown camera mode")

	// ErrInvalidParticleCount indicates a particle store sized below one.
	ErrInvalidParticleCount = errors.New("dynamo: particle count must be positive")

	// ErrInvalidGeometry indicates a non-positive radius or distance.
	ErrInvalidGeometry = errors.New("dynamo: invalid geometry")

	// ErrRunNotFound indicates a stored run id that does not exist.
	ErrRunNotFound = errors.New("dynamo: run not found")
)
