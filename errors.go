package cubetrainer

import "errors"

// Sentinel errors for the cubetrainer package.
var (
	// Parsing errors
	ErrInvalidNotation = errors.New("cubetrainer: invalid move notation")
	ErrInvalidScramble = errors.New("cubetrainer: scramble repeats a face on adjacent moves")
)
