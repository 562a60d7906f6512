package message

import "errors"

var (
	// ErrUnknownVersion is returned when encoding or decoding with a version
	// the codec does not know.
	ErrUnknownVersion = errors.New("unknown message version")

	// ErrMessageTooShort is returned when the input is shorter than the fixed
	// header of the requested layout.
	ErrMessageTooShort = errors.New("message too short")
)
