package scaffold

import "errors"

var (
	// ErrDestinationExists indicates something already exists at the
	// scaffold target path. Nothing is overwritten or renamed; the
	// operator picks a new name or deletes the destination manually.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrContainerCreation indicates the storage container could not be
	// created. The scaffold aborts; the copied project and folders already
	// on disk are left for the operator to clean up.
	ErrContainerCreation = errors.New("container creation failed")
)
