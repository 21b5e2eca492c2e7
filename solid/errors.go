package solid

import "errors"

// Error kinds of the generation pipeline.
var (
	// ErrInvalidParameter reports a dimension, count or scale outside its
	// valid domain. It is fatal for the run: geometry built from invalid
	// parameters cannot be trusted downstream.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrBooleanOpFailed reports a boolean union/difference that could not
	// produce a valid solid. The assembler recovers from it per step by
	// rolling back and skipping.
	ErrBooleanOpFailed = errors.New("boolean operation failed")

	// ErrNoGeometry reports a final assembly with zero faces. An empty
	// output is never a valid product.
	ErrNoGeometry = errors.New("assembly produced no geometry")
)
