package fairness

import "errors"

var (
	// ErrEntropy means the secure random source failed. The protocol cannot
	// continue without fresh randomness.
	ErrEntropy = errors.New("secure random source unavailable")

	// ErrAlreadyRevealed is returned by a second Reveal of the same commitment.
	ErrAlreadyRevealed = errors.New("commitment already revealed")

	// ErrInvalidModulus is returned when a modulus below 1 is requested.
	ErrInvalidModulus = errors.New("modulus must be at least 1")

	// ErrUnknownAlgorithm is returned for unsupported keyed hash names.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
)
