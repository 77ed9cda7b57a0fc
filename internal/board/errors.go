package board

import "errors"

var (
	// ErrAmbiguousCommand is returned when a move descriptor matches zero or
	// several moves of the current state.
	ErrAmbiguousCommand = errors.New("board: ambiguous move command")

	// ErrInvariantViolation is returned when a transition or query finds the
	// state inconsistent with the move, e.g. an empty origin or a missing king.
	ErrInvariantViolation = errors.New("board: invariant violation")

	// ErrHasherSeed is returned when a seed yields zero or duplicate zobrist features.
	ErrHasherSeed = errors.New("board: zobrist seed produced invalid features")

	// ErrInvalidSquare is returned when a square name cannot be parsed.
	ErrInvalidSquare = errors.New("board: invalid square")

	// ErrCorruptState is returned when decoding a packed state fails validation.
	ErrCorruptState = errors.New("board: corrupt state encoding")
)
