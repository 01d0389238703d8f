package smartcube

import "errors"

// Frame errors.
var (
	ErrFrameTooShort   = errors.New("smartcube: frame too short")
	ErrInvalidPrefix   = errors.New("smartcube: invalid frame prefix")
	ErrInvalidSuffix   = errors.New("smartcube: invalid frame suffix")
	ErrInvalidChecksum = errors.New("smartcube: invalid checksum")
	ErrInvalidLength   = errors.New("smartcube: invalid frame length")
	ErrUnexpectedFrame = errors.New("smartcube: unexpected frame type")
)

// Connection errors.
var (
	ErrNotConnected     = errors.New("smartcube: not connected to a cube")
	ErrAlreadyConnected = errors.New("smartcube: already connected to a cube")
	ErrCubeNotFound     = errors.New("smartcube: cube not found")
	ErrServiceNotFound  = errors.New("smartcube: GoCube service not found")
)
