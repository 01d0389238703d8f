// Package smartcube drives a GoCube smart cube as a feedback device: the
// timer's inspection and solve events are mirrored on the cube backlight.
package smartcube

import (
	"fmt"
)

// GoCube BLE service and characteristic UUIDs.
const (
	ServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	TxCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e" // notify
	RxCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e" // write
)

// Notification types the client understands.
const (
	MsgTypeBattery  byte = 0x05
	MsgTypeCubeType byte = 0x08
)

// Command is a single-byte cube command.
type Command byte

// Commands written to the RX characteristic.
const (
	CmdRequestBattery  Command = 0x32
	CmdFlash           Command = 0x41
	CmdToggleAnimated  Command = 0x42
	CmdSlowFlash       Command = 0x43
	CmdToggleBacklight Command = 0x44
	CmdRequestCubeType Command = 0x56
)

// String returns the command name used in logs.
func (c Command) String() string {
	switch c {
	case CmdRequestBattery:
		return "request_battery"
	case CmdFlash:
		return "flash"
	case CmdToggleAnimated:
		return "toggle_animated"
	case CmdSlowFlash:
		return "slow_flash"
	case CmdToggleBacklight:
		return "toggle_backlight"
	case CmdRequestCubeType:
		return "request_cube_type"
	default:
		return fmt.Sprintf("cmd_0x%02X", byte(c))
	}
}

// Frame bytes.
const (
	framePrefix byte = 0x2A // '*'
	frameCR     byte = 0x0D
	frameLF     byte = 0x0A
)

// Frame is a decoded notification.
type Frame struct {
	Type    byte
	Payload []byte
}

// ParseFrame decodes a notification.
// Layout: [0x2A] [length] [type] [payload...] [checksum] [0x0D 0x0A], where
// length counts every byte after itself and the checksum is the byte sum of
// everything before it.
func ParseFrame(data []byte) (Frame, error) {
	if len(data) < 5 {
		return Frame{}, ErrFrameTooShort
	}
	if data[0] != framePrefix {
		return Frame{}, ErrInvalidPrefix
	}

	length := int(data[1])
	if len(data) < 2+length {
		return Frame{}, fmt.Errorf("%w: expected %d, got %d", ErrInvalidLength, 2+length, len(data))
	}

	checksumIdx := length - 1
	if checksumIdx < 2 {
		return Frame{}, ErrFrameTooShort
	}
	if data[checksumIdx+1] != frameCR || data[checksumIdx+2] != frameLF {
		return Frame{}, ErrInvalidSuffix
	}

	var sum byte
	for _, b := range data[:checksumIdx] {
		sum += b
	}
	if sum != data[checksumIdx] {
		return Frame{}, fmt.Errorf("%w: expected 0x%02X, got 0x%02X", ErrInvalidChecksum, data[checksumIdx], sum)
	}

	return Frame{Type: data[2], Payload: data[3:checksumIdx]}, nil
}

// BuildCommand encodes a payload-free command.
func BuildCommand(cmd Command) []byte {
	const length byte = 0x01
	checksum := framePrefix + length + byte(cmd)
	return []byte{framePrefix, length, byte(cmd), checksum, frameCR, frameLF}
}

// DecodeBattery returns the battery percentage carried by a battery frame.
func DecodeBattery(f Frame) (int, error) {
	if f.Type != MsgTypeBattery {
		return 0, fmt.Errorf("%w: 0x%02X is not a battery frame", ErrUnexpectedFrame, f.Type)
	}
	if len(f.Payload) < 1 {
		return 0, fmt.Errorf("%w: empty battery payload", ErrFrameTooShort)
	}
	return int(f.Payload[0]), nil
}
